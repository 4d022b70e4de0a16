////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package logging

import (
	jww "github.com/spf13/jwalterweatherman"
	"sort"
	"sync"
)

// listeners holds every log listener registered with jwalterweatherman, keyed
// on the ID handed back to the caller. jww only accepts the full list, so the
// list is re-registered on every change.
var listeners = newListenerRegistry()

type listenerRegistry struct {
	byID   map[uint64]jww.LogListener
	nextID uint64
	sync.Mutex
}

func newListenerRegistry() *listenerRegistry {
	return &listenerRegistry{
		byID: make(map[uint64]jww.LogListener),
	}
}

// AddLogListener registers the log listener with jwalterweatherman. Returns a
// unique ID that can be used to remove the listener.
func AddLogListener(ll jww.LogListener) uint64 {
	listeners.Lock()
	defer listeners.Unlock()

	id := listeners.add(ll)
	jww.SetLogListeners(listeners.ordered()...)
	return id
}

// RemoveLogListener unregisters the log listener with the ID from
// jwalterweatherman. Unknown IDs are ignored.
func RemoveLogListener(id uint64) {
	listeners.Lock()
	defer listeners.Unlock()

	delete(listeners.byID, id)
	jww.SetLogListeners(listeners.ordered()...)
}

func (lr *listenerRegistry) add(ll jww.LogListener) uint64 {
	id := lr.nextID
	lr.nextID++
	lr.byID[id] = ll
	return id
}

// ordered returns the listeners in registration order.
func (lr *listenerRegistry) ordered() []jww.LogListener {
	ids := make([]uint64, 0, len(lr.byID))
	for id := range lr.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]jww.LogListener, 0, len(ids))
	for _, id := range ids {
		out = append(out, lr.byID[id])
	}
	return out
}
