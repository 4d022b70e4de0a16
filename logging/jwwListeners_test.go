////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package logging

import (
	"bytes"
	"io"
	"testing"

	jww "github.com/spf13/jwalterweatherman"
)

// Tests that a listener added with AddLogListener receives logs and stops
// receiving them once removed with RemoveLogListener.
func TestAddLogListener_RemoveLogListener(t *testing.T) {
	var buf bytes.Buffer
	id := AddLogListener(func(jww.Threshold) io.Writer { return &buf })

	jww.WARN.Print("first message")
	if !bytes.Contains(buf.Bytes(), []byte("first message")) {
		t.Errorf("Listener did not receive log message: %q", buf.String())
	}

	RemoveLogListener(id)
	buf.Reset()

	jww.WARN.Print("second message")
	if buf.Len() != 0 {
		t.Errorf("Removed listener still received logs: %q", buf.String())
	}
}

// Tests that listenerRegistry.add hands out unique, increasing IDs and that
// listenerRegistry.ordered returns listeners in registration order.
func Test_listenerRegistry_ordered(t *testing.T) {
	lr := newListenerRegistry()
	writers := make([]*bytes.Buffer, 5)
	for i := range writers {
		w := &bytes.Buffer{}
		writers[i] = w
		id := lr.add(func(jww.Threshold) io.Writer { return w })
		if id != uint64(i) {
			t.Errorf("Unexpected ID.\nexpected: %d\nreceived: %d", i, id)
		}
	}

	delete(lr.byID, 2)
	expected := []*bytes.Buffer{writers[0], writers[1], writers[3], writers[4]}

	ordered := lr.ordered()
	if len(ordered) != len(expected) {
		t.Fatalf("Unexpected number of listeners.\nexpected: %d\nreceived: %d",
			len(expected), len(ordered))
	}
	for i, ll := range ordered {
		if ll(jww.LevelInfo) != expected[i] {
			t.Errorf("Listener #%d out of order.", i)
		}
	}
}
