package job

import (
	"github.com/resalelab/carprice/database"
	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/util/common"
)

// CheckpointJob folds the sqlite write-ahead log back into the database file.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	defer common.Recover("checkpoint job")
	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err: ", err)
		return
	}
	logger.Debug("database checkpoint done")
}
