package optimistic

import "context"

// Pending tracks a submitted mutation. The optimistic state is already
// visible when Submit returns; waiting is only needed to learn the outcome.
type Pending struct {
	name    string
	done    chan struct{}
	err     error
	skipped bool
}

func newPending(name string) *Pending {
	return &Pending{name: name, done: make(chan struct{})}
}

// Resolved returns a Pending that has already settled with err.
func Resolved(name string, err error) *Pending {
	p := newPending(name)
	p.resolve(err)
	return p
}

func (p *Pending) resolve(err error) {
	p.err = err
	close(p.done)
}

// Name returns the mutation name.
func (p *Pending) Name() string {
	return p.name
}

// Done is closed once the mutation has settled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err returns the outcome. It is nil until Done is closed, and nil after a
// successful commit or a skipped no-op.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Skipped reports whether Apply found nothing to change, so no request was
// sent. It is false until Done is closed.
func (p *Pending) Skipped() bool {
	select {
	case <-p.done:
		return p.skipped
	default:
		return false
	}
}

// Wait blocks until the mutation settles or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
