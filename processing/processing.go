package processing

import (
	"log"
	"time"

	"courseware/illustrations"
	"courseware/models"
	"courseware/storage"
)

type processingTask interface {
	getName() string
	// process returns the number of items it handled this round
	process() int
}

var (
	tasks = []processingTask{}
)

func registerTask(t processingTask) {
	tasks = append(tasks, t)
}

func Init() {
	tasks = []processingTask{}
	registerTask(&classifierSync{repo: models.NewTemplateStore()})
	registerTask(&courseIllustrate{
		client:  illustrations.NewClient(),
		storage: storage.GetDefaultStorage(),
	})
}

func StartProcessing() {
	go func() {
		for {
			for _, task := range tasks {
				start := time.Now()
				handled := task.process()
				if handled > 0 {
					log.Printf("Task %s, handled: %d, time: %v", task.getName(), handled, time.Since(start))
				}
			}
			time.Sleep(30 * time.Second)
		}
	}()
}
