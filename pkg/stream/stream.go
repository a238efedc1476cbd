package stream

import (
	"fmt"
	"iter"
)

// Iterable is a source of values that may fail. The event log readers
// implement it, as does Observable itself.
type Iterable[T any] interface {
	Iterator() iter.Seq2[T, error]
}

// Observer receives notifications from a subscription. Next is called for
// each value, then exactly one of Error or Complete. Nil callbacks are
// skipped.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Operator transforms one observable into another.
type Operator[T any] func(Observable[T]) Observable[T]

// Observable is a synchronous, finite stream of values. Each call to
// Subscribe runs the whole pipeline from the source again.
type Observable[T any] struct {
	seq iter.Seq2[T, error]
}

// Of returns an observable that emits the passed values in order and then
// completes.
func Of[T any](values ...T) Observable[T] {
	return Observable[T]{seq: func(yield func(T, error) bool) {
		for _, v := range values {
			if !yield(v, nil) {
				return
			}
		}
	}}
}

// From adapts an iterable source. An error yielded by the source terminates
// the stream with that error.
func From[T any](src Iterable[T]) Observable[T] {
	return Observable[T]{seq: src.Iterator()}
}

// Iterator makes an Observable usable as an [Iterable] source.
func (o Observable[T]) Iterator() iter.Seq2[T, error] {
	if o.seq == nil {
		return func(func(T, error) bool) {}
	}
	return o.seq
}

// Pipe applies the operators in order.
func (o Observable[T]) Pipe(ops ...Operator[T]) Observable[T] {
	for _, op := range ops {
		o = op(o)
	}
	return o
}

// Tap runs fn for every value passing through. If fn returns an error (or
// panics) the value is not forwarded, the error becomes the terminal event and
// the upstream source is not asked for any more values.
func Tap[T any](fn func(T) error) Operator[T] {
	return func(src Observable[T]) Observable[T] {
		var empty T
		return Observable[T]{seq: func(yield func(T, error) bool) {
			for v, err := range src.Iterator() {
				if err != nil {
					yield(empty, err)
					return
				}
				if err := safeCall(fn, v); err != nil {
					yield(empty, err)
					return
				}
				if !yield(v, nil) {
					return
				}
			}
		}}
	}
}

func safeCall[T any](fn func(T) error, v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("tap panicked: %v", r)
		}
	}()
	return fn(v)
}

// Subscribe consumes the observable, delivering notifications to obs. It
// returns the terminal error, or nil if the stream completed.
func (o Observable[T]) Subscribe(obs Observer[T]) error {
	for v, err := range o.Iterator() {
		if err != nil {
			if obs.Error != nil {
				obs.Error(err)
			}
			return err
		}
		if obs.Next != nil {
			obs.Next(v)
		}
	}
	if obs.Complete != nil {
		obs.Complete()
	}
	return nil
}
