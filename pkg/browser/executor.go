package browser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Summary reports the outcome of an executed queue.
type Summary struct {
	Completed int
	Failed    []Item // the failed subset, in queue order
}

// Executor runs a transfer queue against the two sources. Items are
// processed strictly in queue order, matching the order shown in the
// review dialog. A failed item is recorded and the batch continues;
// there is no mid-batch abort.
type Executor struct {
	local  Source
	remote Source
}

// NewExecutor creates an executor over the two pane sources.
func NewExecutor(local, remote Source) *Executor {
	return &Executor{local: local, remote: remote}
}

// Execute runs the queue, mutating each item's Status in place. onItem,
// when non-nil, is invoked after every status change (InProgress, then
// Succeeded or Failed) with the item index.
func (e *Executor) Execute(ctx context.Context, queue []Item, onItem func(index int, item Item)) Summary {
	notify := func(i int) {
		if onItem != nil {
			onItem(i, queue[i])
		}
	}

	var summary Summary
	for i := range queue {
		item := &queue[i]
		item.Status = StatusInProgress
		notify(i)

		err := e.transfer(ctx, item)
		if err != nil {
			item.Status = StatusFailed
			item.Err = err
			summary.Failed = append(summary.Failed, *item)
			slog.Error("transfer failed", "direction", item.Direction, "source", item.SourcePath, "error", err)
		} else {
			item.Status = StatusSucceeded
			summary.Completed++
			slog.Info("transfer done", "direction", item.Direction, "source", item.SourcePath, "dest", item.DestPath)
		}
		notify(i)
	}
	return summary
}

// sides returns the read side and write side for an item's direction.
func (e *Executor) sides(d Direction) (src, dst Source) {
	if d == Upload {
		return e.local, e.remote
	}
	return e.remote, e.local
}

func (e *Executor) transfer(ctx context.Context, item *Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, dst := e.sides(item.Direction)
	if item.IsDir {
		return copyTree(ctx, src, dst, item.SourcePath, item.DestPath)
	}
	return copyFile(src, dst, item.SourcePath, item.DestPath)
}

// copyTree replicates a directory using an explicit work stack, so the
// walk depth is bounded independently of filesystem depth. Each
// directory is created on the destination before its files are copied;
// a failure partway leaves a partially populated but structurally valid
// destination tree.
func copyTree(ctx context.Context, src, dst Source, srcRoot, dstRoot string) error {
	type frame struct {
		src, dst string
	}
	stack := []frame{{srcRoot, dstRoot}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := ctx.Err(); err != nil {
			return err
		}
		if err := dst.Mkdir(f.dst); err != nil {
			return fmt.Errorf("mkdir %s: %w", f.dst, err)
		}

		entries, err := src.List(f.src)
		if err != nil {
			return err
		}
		for _, en := range entries {
			switch en.Kind {
			case KindDir:
				stack = append(stack, frame{en.Path, dst.Join(f.dst, en.Name)})
			case KindFile:
				if err := copyFile(src, dst, en.Path, dst.Join(f.dst, en.Name)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func copyFile(src, dst Source, srcPath, dstPath string) error {
	r, err := src.Open(srcPath)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := dst.Create(dstPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("copy %s: %w", srcPath, err)
	}
	return w.Close()
}
