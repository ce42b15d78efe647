//
//  Copyright © Manetu Inc. All rights reserved.
//

package auditlog

import (
	"github.com/manetu/ptsengine/pkg/sim/auditlog"
)

// ChannelFactory factory for ChannelStream
type ChannelFactory struct {
	ch chan *auditlog.Record
}

// ChannelStream implements the Stream interface by writing audit records to a channel.
type ChannelStream struct {
	ch chan *auditlog.Record
}

// NewChannelLogger creates a new Stream for logging audit records to a channel.
func NewChannelLogger(ch chan *auditlog.Record) auditlog.Factory {
	return &ChannelFactory{ch: ch}
}

// NewStream creates a new Stream to satisfy the Factory interface.
func (f *ChannelFactory) NewStream() (auditlog.Stream, error) {
	return &ChannelStream{ch: f.ch}, nil
}

// Send emulates delivery to an external audit sink by sending the record to
// the channel.
func (s *ChannelStream) Send(record *auditlog.Record) error {
	s.ch <- record

	return nil
}

// Close finalizes the audit log by closing the underlying channel.
func (s *ChannelStream) Close() {
	if s.ch != nil {
		close(s.ch)
	}
}
