package job

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/util/common"
)

// ClearLogsJob copies the log file to <name>.prev once it grows past
// maxSize bytes and truncates it. The previous .prev file is replaced.
// Lines written between the end of the copy and the truncate are dropped.
type ClearLogsJob struct {
	path    string
	maxSize int64
}

func NewClearLogsJob(path string, maxSize int64) *ClearLogsJob {
	return &ClearLogsJob{path: path, maxSize: maxSize}
}

func (j *ClearLogsJob) Run() {
	defer common.Recover("clear logs job")
	if err := j.rotate(); err != nil {
		logger.Warning("clear logs job err: ", err)
	}
}

func (j *ClearLogsJob) rotate() error {
	info, err := os.Stat(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	if info.Size() < j.maxSize {
		return nil
	}

	if err := copyFile(j.path, j.path+".prev"); err != nil {
		return err
	}
	// the logger holds the file with O_APPEND, so writes continue at the new end
	return os.Truncate(j.path, 0)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
