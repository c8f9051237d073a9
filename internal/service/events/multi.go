package events

import (
	"context"
	"errors"

	"SwingPull/internal/domain/models"
	drepo "SwingPull/internal/domain/repository"
)

type multiPublisher struct {
	pubs []drepo.SnapshotPublisher
}

// Multi fans a snapshot out to every publisher. Nil entries are skipped;
// publish errors are joined so one slow consumer cannot hide another's
// failure.
func Multi(pubs ...drepo.SnapshotPublisher) drepo.SnapshotPublisher {
	out := make([]drepo.SnapshotPublisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return &multiPublisher{pubs: out}
}

func (m *multiPublisher) PublishSnapshot(ctx context.Context, snap *models.MarketSnapshot) error {
	var errs []error
	for _, p := range m.pubs {
		if err := p.PublishSnapshot(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiPublisher) Close() error {
	var errs []error
	for _, p := range m.pubs {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
