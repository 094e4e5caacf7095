// ABOUTME: Push/pull of backup documents through Charm Cloud KV.
// ABOUTME: Pull feeds every stored document through the import reconciler.
package charm

import (
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/storage"
)

// Push exports the local store and writes the document under this
// device's backup key. The KV layer syncs to Charm Cloud afterwards.
func (c *Client) Push(repo *storage.DB) error {
	id, err := c.ID()
	if err != nil {
		return fmt.Errorf("push backup: %w", err)
	}

	data, err := repo.Export(time.Now())
	if err != nil {
		return fmt.Errorf("push backup: %w", err)
	}

	if err := c.set(BackupPrefix+id, data); err != nil {
		return fmt.Errorf("push backup: %w", err)
	}
	return nil
}

// PullSummary aggregates the reconciliation results of one pull.
type PullSummary struct {
	Documents int
	Imported  int
	Skipped   int
}

// Pull syncs the KV store and imports every backup document found in
// it. The reconciler's skip-on-match rules make this idempotent, so
// pulling repeatedly (or pulling this device's own pushed document) is
// safe.
func (c *Client) Pull(repo *storage.DB) (*PullSummary, error) {
	if err := c.Sync(); err != nil {
		return nil, fmt.Errorf("pull backups: sync: %w", err)
	}

	docs, err := c.listByPrefix(BackupPrefix)
	if err != nil {
		return nil, fmt.Errorf("pull backups: %w", err)
	}

	summary := &PullSummary{}
	for _, data := range docs {
		result, err := repo.Import(data)
		if err != nil {
			return nil, fmt.Errorf("pull backups: %w", err)
		}
		summary.Documents++
		summary.Imported += result.TotalImported()
		summary.Skipped += result.TotalSkipped()
	}
	return summary, nil
}
