package async

import (
	"context"
	"errors"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel starts every task concurrently and waits for all of them.
// Errors are wrapped with the task name and joined in task order.
// With cancelOnError, the context passed to the remaining tasks is cancelled
// as soon as one task fails, so in-flight waits end as cancelled.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "volume", Func: attachVolume},
//	    {Name: "filesystem", Func: createFileSystem},
//	}
//	if err := RunParallel(ctx, tasks, true); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task, cancelOnError bool) error {
	if len(tasks) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		index int
		err   error
	}
	results := make(chan result, len(tasks))

	for i, task := range tasks {
		go func() {
			results <- result{index: i, err: task.Func(ctx)}
		}()
	}

	errs := make([]error, len(tasks))
	for range len(tasks) {
		res := <-results
		if res.err == nil {
			continue
		}
		errs[res.index] = fmt.Errorf("%s: %w", tasks[res.index].Name, res.err)
		if cancelOnError {
			cancel()
		}
	}

	return errors.Join(errs...)
}
