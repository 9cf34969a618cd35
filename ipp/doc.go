/* cups4j - Package overview.
 *
 * See LICENSE for license terms and conditions
 */

// Package ipp implements the binary wire format of the Internet Printing
// Protocol (IPP/1.1, RFC 8010/8011): message headers, delimiter and value
// tags, typed attribute values, and the encoder/decoder that turn a Message
// into bytes and back.
//
// The package has no knowledge of HTTP or of any specific IPP operation;
// those live in package cups, one layer up.
package ipp
