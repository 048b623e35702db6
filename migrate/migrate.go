// Package migrate provides bulk import orchestration. It coordinates
// content selection, block conversion, metadata extraction, record
// matching and storage of exported posts.
package migrate

import (
	"context"
	"fmt"

	"github.com/mkowal/inkport"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Importer orchestrates the import of an export archive into the store.
// The conversion pipeline is pure, so documents are converted in
// parallel; store writes are serialized and paced by WriteRate.
type Importer struct {
	Selector  inkport.ContentSelector
	Converter inkport.BlockConverter
	Extractor inkport.MetaExtractor
	Posts     inkport.PostService

	Concurrency int
	// WriteRate caps store writes per second. Zero means unpaced.
	WriteRate float64
}

// Result holds the outcome of an import run.
type Result struct {
	Created int
	Updated int
	Skipped int
	Review  int
	Failed  int
}

// ProgressEvent reports progress during an import run.
type ProgressEvent struct {
	Type       ProgressType
	Completed  int
	Total      int
	FileName   string
	Confidence inkport.MatchConfidence
	Error      error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCreated
	ProgressUpdated
	ProgressSkipped
	ProgressReview
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting import progress.
type ProgressFunc func(event ProgressEvent)

// convertResult holds the outcome of converting a single document.
type convertResult struct {
	position int
	fileName string
	meta     *inkport.PostMeta
	body     []inkport.Block
	err      error
}

// ImportDocuments converts every document and reconciles it against the
// store. High-confidence matches are patched in place, unmatched
// documents create new posts, and partial matches are surfaced as
// review events without touching the store.
func (im *Importer) ImportDocuments(ctx context.Context, docs []inkport.ExternalDocument, dates inkport.DateIndex, progress ProgressFunc) (*Result, error) {
	refs, err := im.Posts.RecordRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("record index: %w", err)
	}
	index := inkport.NewRecordIndex(refs)

	total := len(docs)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := im.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	resultCh := make(chan convertResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, doc := range docs {
			i, doc := i, doc
			g.Go(func() error {
				resultCh <- im.convertDocument(gctx, i, doc, dates)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in input order so re-runs are deterministic.
	results := make([]convertResult, total)
	for result := range resultCh {
		results[result.position] = result
	}

	var limiter *rate.Limiter
	if im.WriteRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(im.WriteRate), 1)
	}

	var res Result
	for _, result := range results {
		if result.err != nil {
			res.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: done(&res),
					Total:     total,
					FileName:  result.fileName,
					Error:     result.err,
				})
			}
			continue
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return &res, err
			}
		}

		event, err := im.reconcile(ctx, index, result)
		if err != nil {
			res.Failed++
			event = ProgressEvent{Type: ProgressFailed, FileName: result.fileName, Error: err}
		} else {
			switch event.Type {
			case ProgressCreated:
				res.Created++
			case ProgressUpdated:
				res.Updated++
			case ProgressSkipped:
				res.Skipped++
			case ProgressReview:
				res.Review++
			}
		}

		if progress != nil {
			event.Completed = done(&res)
			event.Total = total
			progress(event)
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return &res, nil
}

// convertDocument runs the pure pipeline for a single document.
func (im *Importer) convertDocument(ctx context.Context, position int, doc inkport.ExternalDocument, dates inkport.DateIndex) convertResult {
	result := convertResult{position: position, fileName: doc.FileName}

	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	fragment, err := im.Selector.SelectContent(doc.HTML)
	if err != nil {
		result.err = err
		return result
	}

	blocks, err := im.Converter.Convert(fragment)
	if err != nil {
		result.err = err
		return result
	}

	result.body = inkport.AssignKeys(blocks)
	result.meta = im.Extractor.Extract(doc.HTML, doc.FileName, dates)
	return result
}

// reconcile decides between create, patch, skip and review for one
// converted document.
func (im *Importer) reconcile(ctx context.Context, index *inkport.RecordIndex, result convertResult) (ProgressEvent, error) {
	event := ProgressEvent{FileName: result.fileName}

	match, err := index.Match(result.fileName, result.meta.Title)
	if err != nil {
		if inkport.ErrorCode(err) != inkport.ENOTFOUND {
			return event, err
		}
		if err := im.createPost(ctx, result); err != nil {
			return event, err
		}
		event.Type = ProgressCreated
		return event, nil
	}

	event.Confidence = match.Confidence
	if match.Confidence == inkport.MatchPartial {
		event.Type = ProgressReview
		return event, nil
	}

	existing, err := im.Posts.FindPostByID(ctx, match.ID)
	if err != nil {
		return event, err
	}

	if existing.BodyHash == inkport.BodyHash(result.body) {
		event.Type = ProgressSkipped
		return event, nil
	}

	upd := inkport.PostUpdate{
		Body: result.body,
	}
	if result.meta.Title != "" {
		upd.Title = &result.meta.Title
	}
	if result.meta.Excerpt != "" {
		upd.Excerpt = &result.meta.Excerpt
	}
	if result.meta.HeroImageURL != "" {
		upd.HeroImageURL = &result.meta.HeroImageURL
	}
	if !result.meta.PublishedAt.IsZero() {
		upd.PublishedAt = &result.meta.PublishedAt
	}
	if _, err := im.Posts.UpdatePost(ctx, match.ID, upd); err != nil {
		return event, err
	}
	event.Type = ProgressUpdated
	return event, nil
}

// createPost stores a converted document as a new post.
func (im *Importer) createPost(ctx context.Context, result convertResult) error {
	post := &inkport.Post{
		Slug:         result.meta.Slug,
		Title:        result.meta.Title,
		Excerpt:      result.meta.Excerpt,
		HeroImageURL: result.meta.HeroImageURL,
		Body:         result.body,
		PublishedAt:  result.meta.PublishedAt,
	}
	return im.Posts.CreatePost(ctx, post)
}

// done counts reconciled documents for progress reporting.
func done(res *Result) int {
	return res.Created + res.Updated + res.Skipped + res.Review + res.Failed
}
