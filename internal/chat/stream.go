package chat

import (
	"context"
	"io"
	"strings"
	"time"
)

// Stream yields the fragments of one reply in order. Recv returns io.EOF
// after the last fragment. A stream cannot be restarted.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// WordStream emits text one space-separated word at a time
type WordStream struct {
	ctx       context.Context
	words     []string
	next      int
	thinking  time.Duration
	wordDelay time.Duration
	closed    bool
}

// NewWordStream splits text on single spaces. The first fragment is
// delayed by thinking, each later one by wordDelay.
func NewWordStream(ctx context.Context, text string, thinking, wordDelay time.Duration) *WordStream {
	return &WordStream{
		ctx:       ctx,
		words:     strings.Split(text, " "),
		thinking:  thinking,
		wordDelay: wordDelay,
	}
}

// Recv returns the next fragment, the word followed by a space
func (s *WordStream) Recv() (string, error) {
	if s.closed || s.next >= len(s.words) {
		return "", io.EOF
	}

	delay := s.wordDelay
	if s.next == 0 {
		delay = s.thinking
	}
	if err := sleep(s.ctx, delay); err != nil {
		return "", err
	}

	word := s.words[s.next]
	s.next++
	return word + " ", nil
}

// Close stops the stream; later Recv calls return io.EOF
func (s *WordStream) Close() error {
	s.closed = true
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Collect drains a stream into one string
func Collect(s Stream) (string, error) {
	defer s.Close()

	var b strings.Builder
	for {
		frag, err := s.Recv()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteString(frag)
	}
}
