// Package tmpl expands the literal {{WORKTREE_DIR}} and {{BRANCH_NAME}}
// placeholders in a slot's configured template files. This is deliberately
// not text/template: unknown placeholders must survive untouched, which a
// strict template engine would instead reject as undefined.
package tmpl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/slotctl/internal/config"
	"github.com/raphi011/slotctl/internal/log"
	"github.com/raphi011/slotctl/internal/storage"
)

const (
	placeholderSlot   = "{{WORKTREE_DIR}}"
	placeholderBranch = "{{BRANCH_NAME}}"
)

// Expand renders every configured (source, target) pair for one slot.
// source is read relative to templatesDir; target is written relative to
// slotDir, overwriting unconditionally. branch is empty for a vacant slot.
// A missing source file is logged and skipped; it does not fail the pass.
func Expand(ctx context.Context, templatesDir, slotDir, slotName, branch string, mappings []config.TemplateMapping) error {
	l := log.FromContext(ctx)
	for _, m := range mappings {
		src := filepath.Join(templatesDir, m.Source)
		data, err := os.ReadFile(src)
		if err != nil {
			if os.IsNotExist(err) {
				l.Printf("tmpl: template source %s not found, skipping", m.Source)
				continue
			}
			return fmt.Errorf("tmpl: read %s: %w", src, err)
		}

		rendered := strings.ReplaceAll(string(data), placeholderSlot, slotName)
		rendered = strings.ReplaceAll(rendered, placeholderBranch, branch)

		dst := filepath.Join(slotDir, m.Target)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("tmpl: mkdir for %s: %w", m.Target, err)
		}
		if err := storage.WriteFileAtomic(dst, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("tmpl: write %s: %w", m.Target, err)
		}
	}
	return nil
}
