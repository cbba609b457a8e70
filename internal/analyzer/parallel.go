package analyzer

import (
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"stenolex/internal/domain"
)

// QueryAll analyzes every translation and returns the results in input order.
// With procs > 1 the batch is striped across that many workers; the shared
// rule data is read-only, so no locking is involved. If any worker fails for
// any reason the failure is logged and the whole batch is transparently
// rerun on a single worker. Bulk analysis must degrade, never error out.
func (a *Analyzer) QueryAll(translations []domain.Translation, procs int, matchAll bool) []*domain.Rule {
	return queryAll(translations, procs, func(t domain.Translation) *domain.Rule {
		return a.Query(t.Keys, t.Letters, matchAll)
	})
}

func queryAll(translations []domain.Translation, procs int, fn func(domain.Translation) *domain.Rule) []*domain.Rule {
	if procs <= 0 {
		procs = runtime.NumCPU()
	}
	if procs > 1 {
		out := make([]*domain.Rule, len(translations))
		var g errgroup.Group
		for w := 0; w < procs; w++ {
			w := w
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("analysis worker: %v", r)
					}
				}()
				for i := w; i < len(translations); i += procs {
					out[i] = fn(translations[i])
				}
				return nil
			})
		}
		err := g.Wait()
		if err == nil {
			return out
		}
		log.Printf("parallel analysis failed (%v); retrying with a single worker", err)
	}
	out := make([]*domain.Rule, len(translations))
	for i, t := range translations {
		out[i] = fn(t)
	}
	return out
}
