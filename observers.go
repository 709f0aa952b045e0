package settings

// ChangeFunc observes a wholesale replacement of the stored value. before is
// the value being replaced, after the value about to be stored. Returning an
// error aborts the replacement.
type ChangeFunc[T any] func(before, after *T) error

type observer[T any] struct {
	id uint64
	fn ChangeFunc[T]
}

// observers is an ordered list of change callbacks. It is not safe for
// concurrent use.
type observers[T any] struct {
	next uint64
	list []observer[T]
}

func (o *observers[T]) add(fn ChangeFunc[T]) func() {
	o.next++
	id := o.next
	o.list = append(o.list, observer[T]{id: id, fn: fn})
	return func() { o.remove(id) }
}

func (o *observers[T]) remove(id uint64) {
	for i, ob := range o.list {
		if ob.id == id {
			// Copy so a notify loop already ranging over the old slice is unaffected.
			list := make([]observer[T], 0, len(o.list)-1)
			list = append(list, o.list[:i]...)
			o.list = append(list, o.list[i+1:]...)
			return
		}
	}
}

// notify calls every observer in registration order and stops at the first error.
func (o *observers[T]) notify(before, after *T) error {
	for _, ob := range o.list {
		if err := ob.fn(before, after); err != nil {
			return err
		}
	}
	return nil
}
