package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/patel-atit/latenotices/internal/balance"
	"github.com/patel-atit/latenotices/internal/ledger"
	"github.com/patel-atit/latenotices/internal/notice"
)

// Extractor supplies the raw per-lot records for one run.
type Extractor interface {
	Records(ctx context.Context) ([]ledger.Record, error)
}

// Notices runs the extract -> evaluate -> render pipeline once per call.
type Notices struct {
	Extractor Extractor
	Engine    balance.Engine
	Parks     notice.Registry
	OutputDir string
	GraceDays int
	EmitEmpty bool
	Now       func() time.Time
}

// RunResult summarizes one batch for the operator.
type RunResult struct {
	RunID         string
	Park          notice.ParkProfile
	Accounts      int
	Skipped       int
	RowErrors     []balance.RowError
	Notices       int
	TotalDueCents int64
	ArtifactPath  string
}

// Run generates late notices for one park. Row-level problems are
// reported in the result and never abort the batch; an unknown park,
// extraction failure, or artifact write failure does.
func (s *Notices) Run(ctx context.Context, parkCode string) (RunResult, error) {
	res := RunResult{RunID: uuid.NewString()}

	// resolve the park before touching any rows
	park, err := s.Parks.Lookup(parkCode)
	if err != nil {
		return res, err
	}
	res.Park = park

	records, err := s.Extractor.Records(ctx)
	if err != nil {
		return res, fmt.Errorf("extract ledger: %w", err)
	}

	built := balance.Build(records)
	res.Accounts = len(built.Accounts)
	res.Skipped = built.Skipped
	res.RowErrors = built.Errors
	res.TotalDueCents = s.Engine.TotalDueCents(built.Accounts)

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	r := notice.Renderer{Park: park, GraceDays: s.GraceDays, Now: now}

	var docs []notice.Document
	for _, a := range built.Accounts {
		due := s.Engine.Evaluate(a)
		if !due.Delinquent {
			continue
		}
		docs = append(docs, r.Document(a.LotNumber, due.AfterGraceCents, due.AfterSecondGraceCents))
	}
	res.Notices = len(docs)

	if len(docs) == 0 && !s.EmitEmpty {
		return res, nil
	}

	path := notice.ArtifactPath(s.OutputDir, park, now())
	if err := notice.Write(path, notice.Render(docs)); err != nil {
		return res, err
	}
	res.ArtifactPath = path
	return res, nil
}
