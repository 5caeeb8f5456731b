package upload

import (
	"context"
)

// Plan is the outcome of comparing a listing's stored images with the ones
// the client asked to keep.
type Plan struct {
	// Kept are the requested URLs that were actually stored, in request order.
	Kept []string
	// Removed are stored URLs the client no longer wants.
	Removed []string
	// Ignored are requested URLs that were never stored for this listing.
	Ignored []string
}

// Reconcile compares before, the stored image list, with keep, the list the
// client wants to retain.
func Reconcile(before, keep []string) Plan {
	stored := make(map[string]bool, len(before))
	for _, u := range before {
		stored[u] = true
	}

	p := Plan{Kept: []string{}}
	kept := make(map[string]bool, len(keep))
	for _, u := range keep {
		switch {
		case kept[u]:
		case stored[u]:
			kept[u] = true
			p.Kept = append(p.Kept, u)
		default:
			p.Ignored = append(p.Ignored, u)
		}
	}
	for _, u := range before {
		if !kept[u] {
			p.Removed = append(p.Removed, u)
		}
	}
	return p
}

// Result is the new image list of a listing together with what changed.
type Result struct {
	ImageURLs []string
	Removed   []string
	Ignored   []string
	Upload    BatchResult
}

// Apply uploads files under ns and returns the listing's new image list:
// the kept URLs followed by the new uploads. Nothing is deleted here; the
// caller removes Result.Removed once the listing row is saved.
func (u *Uploader) Apply(ctx context.Context, ns Namespace, before, keep []string, files []File) Result {
	plan := Reconcile(before, keep)
	if len(plan.Ignored) > 0 {
		u.logger.Warn("ignoring unknown image urls", "namespace", ns, "urls", plan.Ignored)
	}

	batch := BatchResult{URLs: []string{}}
	if len(files) > 0 {
		batch = u.UploadBatch(ctx, ns, files)
	}

	urls := make([]string, 0, len(plan.Kept)+len(batch.URLs))
	urls = append(urls, plan.Kept...)
	urls = append(urls, batch.URLs...)

	return Result{
		ImageURLs: urls,
		Removed:   plan.Removed,
		Ignored:   plan.Ignored,
		Upload:    batch,
	}
}
