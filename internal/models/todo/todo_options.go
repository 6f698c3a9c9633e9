package todo

import "time"

type PatchOption func(*Patch)

func WithText(text string) PatchOption {
	return func(p *Patch) {
		p.Text = &text
	}
}

func WithDeadline(deadline time.Time) PatchOption {
	if deadline.IsZero() {
		return nil
	}
	return func(p *Patch) {
		p.Deadline = &deadline
	}
}

func WithDone(done bool) PatchOption {
	return func(p *Patch) {
		p.Done = &done
	}
}
