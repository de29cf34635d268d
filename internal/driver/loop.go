// SPDX-License-Identifier: MIT
package driver

import (
	"context"
	"discolight/internal/acquire"
	"errors"
)

// Loop is the control loop: it waits for the acquisition to publish a full
// frame, runs the pipeline on it and hands the frame back.
type Loop struct {
	acq      *acquire.Acquisition
	pipeline *Pipeline
}

// NewLoop binds a pipeline to an acquisition. The frame length must match
// the spectral engine.
func NewLoop(acq *acquire.Acquisition, pipeline *Pipeline) (*Loop, error) {
	if acq.Frame().Len() != pipeline.engine.FrameSize() {
		return nil, errors.New("driver: frame length does not match the spectral engine")
	}
	return &Loop{acq: acq, pipeline: pipeline}, nil
}

// Run arms the converter and processes frames until ctx is cancelled.
// Cancellation is the normal way to stop and is not reported as an error.
func (l *Loop) Run(ctx context.Context) error {
	driverLog.Infof("control loop started (N=%d, %d channels)", l.pipeline.engine.FrameSize(), l.pipeline.Channels())
	l.acq.Start()
	for {
		if err := l.acq.Wait(ctx); err != nil {
			driverLog.Infof("control loop stopped after %d frames, %d overruns", l.acq.Frames(), l.acq.Overruns())
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		l.pipeline.Step(l.acq.Frame().Samples())
		l.acq.Release()
	}
}
