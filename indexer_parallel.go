package treelight

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/jward/treelight/internal/index"
)

// workItem carries one prepared file through the parallel pipeline.
type workItem struct {
	path    string
	lang    Language
	fileID  int64
	content []byte
}

// indexFilesParallel indexes files in three phases:
//
//	Phase A (serial):   hash check, delete old rows, insert file records.
//	Phase B (parallel): parse and extract declarations via a worker pool,
//	                    one parser per file since parsers are not
//	                    goroutine-safe.
//	Phase C (serial):   write each file's symbol set in one transaction.
//
// SQLite writes stay on a single goroutine; only parsing fans out.
func (ix *Indexer) indexFilesParallel(ctx context.Context, paths []string) error {
	// ---- Phase A: serial preparation ----
	var items []workItem
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		item, skip, err := ix.prepareFile(path)
		if err != nil {
			return fmt.Errorf("treelight: prepare %s: %w", path, err)
		}
		if skip {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil
	}

	// ---- Phase B: parallel extraction ----
	numWorkers := min(runtime.NumCPU(), len(items))

	workCh := make(chan workItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	type result struct {
		item workItem
		syms []*index.Symbol
		err  error
	}
	resultCh := make(chan result, len(items))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				syms, err := extractSymbols(ctx, item.lang, item.content)
				resultCh <- result{item: item, syms: syms, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// ---- Phase C: serial commit ----
	var errs []error
	for res := range resultCh {
		if res.err != nil {
			// Same policy as the serial path: a file that fails to
			// parse keeps its row with no symbols.
			ix.logger.Warn("extraction failed", "path", res.item.path, "err", res.err)
			continue
		}
		if err := ix.store.ReplaceSymbols(res.item.fileID, res.syms); err != nil {
			errs = append(errs, fmt.Errorf("commit %s: %w", res.item.path, err))
			continue
		}
		ix.logger.Debug("indexed", "path", res.item.path, "symbols", len(res.syms))
	}

	if len(errs) > 0 {
		return fmt.Errorf("treelight: parallel indexing had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

// prepareFile does Phase A work for one file. skip=true means the file
// is unsupported, filtered out, or unchanged since the last run.
func (ix *Indexer) prepareFile(path string) (workItem, bool, error) {
	lang := DetectLanguage(path)
	if !ix.wantsLanguage(lang) {
		return workItem{}, true, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("read file: %w", err)
	}
	hash := hashHex(content)

	existing, err := ix.store.FileByPath(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		return workItem{}, true, nil
	}
	if existing != nil {
		if err := ix.store.DeleteFileData(existing.ID); err != nil {
			return workItem{}, false, fmt.Errorf("delete old data: %w", err)
		}
	}

	fileID, err := ix.store.InsertFile(&index.File{
		Path:        path,
		Language:    string(lang),
		Hash:        hash,
		LineCount:   countLines(content),
		LastIndexed: time.Now(),
	})
	if err != nil {
		return workItem{}, false, fmt.Errorf("insert file: %w", err)
	}

	return workItem{path: path, lang: lang, fileID: fileID, content: content}, false, nil
}
