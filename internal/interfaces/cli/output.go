package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jhoicas/stockdelta/internal/application/dto"
)

func printTasks(w io.Writer, format string, tasks ...dto.TaskResponse) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		if len(tasks) == 1 {
			return enc.Encode(tasks[0])
		}
		return enc.Encode(tasks)
	}
	for _, t := range tasks {
		if t.Task == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-8s %-10s day=%s rows=%d path=%s run_id=%s\n",
			t.Task, t.Status, t.Day, t.Rows, t.Path, t.RunID); err != nil {
			return err
		}
		if t.Snapshot != nil && (len(t.Snapshot.Dropped) > 0 || len(t.Snapshot.Pending) > 0) {
			if _, err := fmt.Fprintf(w, "         dropped=%v pending=%v rounds=%d\n",
				t.Snapshot.Dropped, t.Snapshot.Pending, t.Snapshot.Rounds); err != nil {
				return err
			}
		}
	}
	return nil
}

func printStores(w io.Writer, format string, s dto.StoresResponse) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(s)
	}
	_, err := fmt.Fprintf(w, "stores   ok         rows=%d path=%s run_id=%s\n", s.Rows, s.Path, s.RunID)
	return err
}
