package cancel

import "iter"

// Iter wraps a sequence so that cancellation is checked before each
// element. On cancellation it yields the zero value with ErrCancelled
// and stops; elements already yielded stay consumed.
func Iter[T any](s *Scope, seq iter.Seq[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v := range seq {
			if s.Cancelled() {
				var zero T
				yield(zero, ErrCancelled)

				return
			}

			if !yield(v, nil) {
				return
			}
		}
	}
}

// Chan wraps a channel the same way Iter wraps a sequence. A select on
// the scope's done channel means a blocked receive also wakes on
// cancellation.
func Chan[T any](s *Scope, ch <-chan T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			select {
			case <-s.Done():
				var zero T
				yield(zero, ErrCancelled)

				return
			case v, ok := <-ch:
				if !ok {
					return
				}

				if s.Cancelled() {
					var zero T
					yield(zero, ErrCancelled)

					return
				}

				if !yield(v, nil) {
					return
				}
			}
		}
	}
}
