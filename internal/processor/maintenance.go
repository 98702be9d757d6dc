package processor

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"codeberg.org/snonux/palabra/internal/archive"
	"codeberg.org/snonux/palabra/internal/batch"
	"codeberg.org/snonux/palabra/internal/cleaner"
)

// Clean removes junk entries, duplicates or both after confirmation
func (p *Processor) Clean(kind string) error {
	if kind == "" {
		kind = string(cleaner.KindAll)
	}
	k, err := cleaner.ParseKind(kind)
	if err != nil {
		return err
	}

	plan, ok := cleaner.Prepare(k, p.words.Entries())
	if !ok {
		fmt.Fprintln(p.out, "Nothing to clean")
		return nil
	}

	for n, i := range plan.Indices {
		e := plan.Entries[n]
		fmt.Fprintf(p.out, "  %s  (%s)\n", formatEntry(e), plan.Reasons[i])
	}
	if !p.confirm(fmt.Sprintf("Delete %d word(s)?", plan.Count())) {
		fmt.Fprintln(p.out, "Cancelled")
		return nil
	}

	if err := p.snapshot(); err != nil {
		return err
	}
	n, err := p.words.DeleteIndices(plan.Indices)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(p.out, "Removed %d word(s)\n", n)
	return nil
}

// Clear deletes every word after confirmation
func (p *Processor) Clear() error {
	if p.words.Len() == 0 {
		fmt.Fprintln(p.out, "Nothing to clear")
		return nil
	}
	if !p.confirm(fmt.Sprintf("Delete all %d word(s)?", p.words.Len())) {
		fmt.Fprintln(p.out, "Cancelled")
		return nil
	}
	if err := p.snapshot(); err != nil {
		return err
	}
	if err := p.words.ClearAll(); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "All words deleted")
	return nil
}

// snapshot archives the current list when --archive is set
func (p *Processor) snapshot() error {
	if !p.flags.Archive {
		return nil
	}
	path, err := archive.Snapshot(stateDir(p.flags), p.words.ExportAll())
	if err != nil {
		return fmt.Errorf("failed to archive words: %w", err)
	}
	fmt.Fprintf(p.out, "Archived to %s\n", path)
	return nil
}

// Export writes every word to path, or to a dated file in the current
// directory when path is empty
func (p *Processor) Export(path string) error {
	if path == "" {
		path = batch.ExportFilename(p.now())
	}
	pairs := p.words.ExportAll()
	if err := batch.WriteFile(path, pairs); err != nil {
		return err
	}
	abs, _ := filepath.Abs(path)
	fmt.Fprintf(p.out, "Exported %d word(s) to %s\n", len(pairs), abs)
	return nil
}

// Import reads an exported file and adds the words not yet in the list
func (p *Processor) Import(path string) error {
	pairs, err := batch.ReadFile(path)
	if err != nil {
		p.logger.Warn("import failed", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("import failed: %w", err)
	}
	n, err := p.words.ImportBatch(pairs)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Imported %d of %d word(s)\n", n, len(pairs))
	return nil
}
