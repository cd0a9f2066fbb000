package spool

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/armada-cluster/armada/internal/launch"
	"github.com/armada-cluster/armada/internal/util/codec"
	"github.com/pkg/errors"
)

// FSSpool stores launch requests as length-prefixed JSON frames in a
// single append-only file. It backs the generators and local replay runs
// where no queue is available.
type FSSpool struct {
	path string
}

func NewFSSpool(path string) *FSSpool {
	return &FSSpool{path: path}
}

func (s *FSSpool) Append(ctx context.Context, req launch.Request) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0744); err != nil {
		return errors.Wrap(err, "mkdir all")
	}

	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "opening file")
	}
	defer file.Close()

	b, err := codec.MarshalWithSize(req)
	if err != nil {
		return errors.Wrap(err, "marshaling request")
	}

	if _, err := file.Write(b); err != nil {
		return errors.Wrap(err, "writing to file")
	}

	return nil
}

func (s *FSSpool) Stream(ctx context.Context) (<-chan launch.Request, <-chan error) {
	stream := make(chan launch.Request)
	errchan := make(chan error, 1)

	go func() {
		defer close(stream)

		file, err := os.Open(s.path)
		if err != nil {
			errchan <- errors.Wrap(err, "opening spool")
			return
		}
		defer file.Close()

		dec := codec.NewDecoder(bufio.NewReader(file))
		for {
			var dst launch.Request

			err := dec.Decode(&dst)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				errchan <- errors.Wrap(err, "decoding request")
				return
			}

			select {
			case <-ctx.Done():
				errchan <- ctx.Err()
				return
			case stream <- dst:
			}
		}
	}()

	return stream, errchan
}

// Source adapts a spool to the launch.Source interface. Requests are
// handed out in file order; marking done is a no-op since a frame is
// consumed the moment it is read.
type Source struct {
	spool *FSSpool

	once    sync.Once
	stream  <-chan launch.Request
	errchan <-chan error
	seq     int
}

var _ launch.Source = (*Source)(nil)

func NewSource(spool *FSSpool) *Source {
	return &Source{spool: spool}
}

func (s *Source) Poll(ctx context.Context) (receipt string, req launch.Request, err error) {
	s.once.Do(func() {
		s.stream, s.errchan = s.spool.Stream(ctx)
	})

	select {
	case <-ctx.Done():
		return "", launch.Request{}, ctx.Err()
	case err := <-s.errchan:
		return "", launch.Request{}, err
	case req, ok := <-s.stream:
		if !ok {
			return "", launch.Request{}, launch.NoErrEmptyQueue
		}

		s.seq++
		return strconv.Itoa(s.seq), req, nil
	}
}

func (s *Source) MarkAsDone(ctx context.Context, receipt string) error {
	return nil
}
