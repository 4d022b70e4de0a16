////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package logging

import (
	"io"
	"sync"

	"github.com/armon/circbuf"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// DefaultRecentLogSize is the default number of bytes kept by a RecentLog.
const DefaultRecentLogSize = 64 * 1024

// RecentLog records the most recent jwalterweatherman log output to an
// in-memory ring buffer. Once the buffer is full, the oldest bytes are
// overwritten.
type RecentLog struct {
	threshold jww.Threshold
	maxSize   int
	stopped   bool
	cb        *circbuf.Buffer
	mux       sync.Mutex
}

// NewRecentLog returns a RecentLog that keeps at most maxSize bytes of logs at
// or above the threshold. It is not registered with jwalterweatherman; pass
// RecentLog.Listen to AddLogListener for that.
func NewRecentLog(threshold jww.Threshold, maxSize int) (*RecentLog, error) {
	cb, err := circbuf.NewBuffer(int64(maxSize))
	if err != nil {
		return nil, errors.Wrap(err, "could not create new circular buffer")
	}

	return &RecentLog{
		threshold: threshold,
		maxSize:   maxSize,
		cb:        cb,
	}, nil
}

// Write adheres to the io.Writer interface and writes log entries to the
// buffer. Writes after Stop are dropped.
func (rl *RecentLog) Write(p []byte) (n int, err error) {
	rl.mux.Lock()
	defer rl.mux.Unlock()
	if rl.stopped {
		return len(p), nil
	}
	return rl.cb.Write(p)
}

// Listen adheres to the [jwalterweatherman.LogListener] type and returns the
// log writer when the threshold is within the set threshold limit.
func (rl *RecentLog) Listen(t jww.Threshold) io.Writer {
	rl.mux.Lock()
	defer rl.mux.Unlock()
	if rl.stopped || t < rl.threshold {
		return nil
	}
	return rl
}

// Stop stops recording. Once stopped, it cannot be resumed. Already recorded
// logs remain readable.
func (rl *RecentLog) Stop() {
	rl.mux.Lock()
	defer rl.mux.Unlock()
	rl.stopped = true
}

// Bytes returns a copy of the buffered log.
func (rl *RecentLog) Bytes() []byte {
	rl.mux.Lock()
	defer rl.mux.Unlock()
	b := rl.cb.Bytes()
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Threshold returns the log level threshold of the buffer.
func (rl *RecentLog) Threshold() jww.Threshold {
	return rl.threshold
}

// MaxSize returns the max size, in bytes, of the buffer.
func (rl *RecentLog) MaxSize() int {
	return rl.maxSize
}

// Size returns the number of bytes currently held.
func (rl *RecentLog) Size() int {
	rl.mux.Lock()
	defer rl.mux.Unlock()
	return len(rl.cb.Bytes())
}
