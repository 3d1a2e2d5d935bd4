// Package scanner feeds decoded scan payloads into the validator.
//
// A Source emits payloads at its own pace; Feed calls the synchronous
// validator once per payload, in arrival order.
package scanner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"checkin/internal/validation"
	"checkin/lib/sl"
)

var ErrUnavailable = errors.New("scanner unavailable")

type Source interface {
	// Open starts emitting payloads; the channel is closed when the
	// source is exhausted or ctx is done
	Open(ctx context.Context) (<-chan string, error)
}

// LineSource reads one payload per line, the way keyboard-wedge
// barcode readers type them.
type LineSource struct {
	r io.Reader
}

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: r}
}

func (l *LineSource) Open(ctx context.Context) (<-chan string, error) {
	if l.r == nil {
		return nil, ErrUnavailable
	}
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(l.r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case out <- line:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// DeviceSource opens a character device or named pipe and reads lines from it.
type DeviceSource struct {
	path string
}

func NewDeviceSource(path string) *DeviceSource {
	return &DeviceSource{path: path}
}

func (d *DeviceSource) Open(ctx context.Context) (<-chan string, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	go func() {
		<-ctx.Done()
		_ = f.Close()
	}()
	return NewLineSource(f).Open(ctx)
}

type Validator interface {
	Validate(ctx context.Context, code string) (validation.Result, error)
}

type Feed struct {
	validator Validator
	log       *slog.Logger
}

func NewFeed(v Validator, log *slog.Logger) *Feed {
	return &Feed{
		validator: v,
		log:       log.With(sl.Module("scanner")),
	}
}

// Run validates every payload emitted by source and passes the result to
// handle. It returns ErrUnavailable if the source cannot be opened, and
// nil once the source is exhausted or ctx is cancelled.
func (f *Feed) Run(ctx context.Context, source Source, handle func(validation.Result)) error {
	payloads, err := source.Open(ctx)
	if err != nil {
		f.log.Warn("scanner not started", sl.Err(err))
		if !errors.Is(err, ErrUnavailable) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	f.log.Info("scanner started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case code, ok := <-payloads:
			if !ok {
				f.log.Info("scanner closed")
				return nil
			}
			result, err := f.validator.Validate(ctx, code)
			if err != nil {
				f.log.With(sl.Code(code)).Error("validate scan", sl.Err(err))
				continue
			}
			if handle != nil {
				handle(result)
			}
		}
	}
}

// ValidatorFunc adapts a plain function to Validator
type ValidatorFunc func(ctx context.Context, code string) (validation.Result, error)

func (f ValidatorFunc) Validate(ctx context.Context, code string) (validation.Result, error) {
	return f(ctx, code)
}
