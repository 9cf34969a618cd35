/* cups4j - Size-triggered, gzip-compressing log file rotation.
 *
 * See LICENSE for license terms and conditions
 */

package cupslog

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sync"
)

// DefaultMaxFileSize and DefaultMaxBackupFiles mirror the ipp-usb
// logger's own defaults.
const (
	DefaultMaxFileSize    = 256 * 1024
	DefaultMaxBackupFiles = 5
)

// RotatingWriter is an io.Writer that rotates its backing file once it
// exceeds MaxFileSize, gzip-compressing the retired generation and
// keeping at most MaxBackupFiles of them. It is exposed as a plain
// io.Writer so it can be wrapped in zapcore.AddSync for use as a zap
// output.
type RotatingWriter struct {
	Path           string
	MaxFileSize    int64
	MaxBackupFiles int

	mu   sync.Mutex
	file *os.File
}

// Open opens (creating if necessary) the file at w.Path for appending.
func (w *RotatingWriter) Open() error {
	f, err := os.OpenFile(w.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("cupslog: opening %s: %w", w.Path, err)
	}
	w.file = f
	return nil
}

// Write implements io.Writer, rotating the file first if it has grown
// past MaxFileSize.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.openLocked(); err != nil {
			return 0, err
		}
	}

	if w.maxFileSize() > 0 {
		if stat, err := w.file.Stat(); err == nil && stat.Size() > w.maxFileSize() {
			w.rotateLocked()
		}
	}

	return w.file.Write(p)
}

// Sync flushes the underlying file, satisfying zapcore.WriteSyncer.
func (w *RotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

func (w *RotatingWriter) openLocked() error {
	f, err := os.OpenFile(w.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("cupslog: opening %s: %w", w.Path, err)
	}
	w.file = f
	return nil
}

func (w *RotatingWriter) maxFileSize() int64 {
	if w.MaxFileSize > 0 {
		return w.MaxFileSize
	}
	return DefaultMaxFileSize
}

func (w *RotatingWriter) maxBackupFiles() int {
	if w.MaxBackupFiles > 0 {
		return w.MaxBackupFiles
	}
	return DefaultMaxBackupFiles
}

// backupPath returns the path of the gen'th backup generation of the
// writer's current file: gen 1 is the newest backup (w.Path+".1.gz"),
// gen w.maxBackupFiles() the oldest.
func (w *RotatingWriter) backupPath(gen int) string {
	return fmt.Sprintf("%s.%d.gz", w.Path, gen)
}

// rotateLocked retires the current file as the newest backup
// generation, after first aging out any existing backups by one slot
// (dropping the oldest) and compressing the retired file with gzip.
// Caller holds w.mu.
func (w *RotatingWriter) rotateLocked() {
	generations := w.maxBackupFiles()

	os.Remove(w.backupPath(generations))
	for gen := generations; gen > 1; gen-- {
		os.Rename(w.backupPath(gen-1), w.backupPath(gen))
	}

	w.file.Close()
	if err := compressToFile(w.Path, w.backupPath(1)); err == nil {
		os.Truncate(w.Path, 0)
	}
	w.openLocked()
}

// compressToFile gzip-compresses the contents of srcPath into a new
// file at dstPath, leaving srcPath's own contents untouched; on any
// failure dstPath is removed rather than left as a partial file.
func compressToFile(srcPath, dstPath string) (err error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := dst.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(dstPath)
		}
	}()

	zw := gzip.NewWriter(dst)
	if _, err = io.Copy(zw, src); err != nil {
		return err
	}
	return zw.Close()
}
