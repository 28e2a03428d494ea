// Package loader fills the placeholders of a host page. Each loader fetches
// one kind of site data, renders it and splices it into its targets; loaders
// run concurrently and a failing loader leaves only its own targets untouched.
package loader

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Bitlatte/labsite/internal/logger"
)

const tracerName = "github.com/Bitlatte/labsite/internal/loader"

// ErrNoTargets is returned by a loader when the page has nothing for it to
// fill. Assemble reports it as skipped rather than failed.
var ErrNoTargets = errors.New("no targets on page")

// Loader fills one kind of placeholder.
type Loader interface {
	Name() string
	Load(ctx context.Context, p *Page) error
}

// Defaults returns every loader.
func Defaults() []Loader {
	return []Loader{
		Header{},
		Footer{},
		SiteMeta{},
		People{},
		Publications{},
		Research{},
		Hero{},
		About{},
	}
}

// Status is the outcome of one loader.
type Status string

// Loader outcomes.
const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result records how a loader did on a page.
type Result struct {
	Loader   string
	Status   Status
	Duration time.Duration
	Err      error
}

// Report is the outcome of assembling one page.
type Report struct {
	Page    string
	Results []Result
}

// Failed returns the results of loaders that failed.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Assemble runs loaders against p concurrently and waits for all of them.
// Failures are logged and recorded in the report; they never stop the other
// loaders.
func Assemble(ctx context.Context, p *Page, loaders []Loader) Report {
	report := Report{Page: p.BasePath, Results: make([]Result, len(loaders))}

	var wg sync.WaitGroup
	for i, l := range loaders {
		wg.Add(1)
		go func(i int, l Loader) {
			defer wg.Done()
			report.Results[i] = run(ctx, p, l)
		}(i, l)
	}
	wg.Wait()

	return report
}

func run(ctx context.Context, p *Page, l Loader) Result {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "loader."+l.Name(),
		trace.WithAttributes(
			attribute.String("loader", l.Name()),
			attribute.String("page", p.BasePath),
		),
	)
	defer span.End()

	log := logger.FromContext(ctx).With("loader", l.Name(), "page", p.BasePath)

	start := time.Now()
	err := l.Load(ctx, p)
	res := Result{Loader: l.Name(), Status: StatusOK, Duration: time.Since(start)}

	switch {
	case errors.Is(err, ErrNoTargets):
		res.Status = StatusSkipped
		span.SetAttributes(attribute.Bool("skipped", true))
		log.Debug("no targets")
	case err != nil:
		res.Status = StatusFailed
		res.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("loader failed", "error", err)
	default:
		log.Debug("loader finished", "duration", res.Duration)
	}

	return res
}
