package stream

import "sync"

// FanIn merges every input stream into one output stream. The output is
// closed once all inputs are drained.
func FanIn[T any](streams ...<-chan T) <-chan T {
	out := make(chan T, len(streams))

	var wg sync.WaitGroup
	wg.Add(len(streams))

	for _, stream := range streams {
		go func(c <-chan T) {
			defer wg.Done()
			for v := range c {
				out <- v
			}
		}(stream)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
