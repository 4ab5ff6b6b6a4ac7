// Package goom produces transform buffers for a feedback image warp.
//
// # Overview
//
// A transform buffer holds, for every destination pixel, the normalized
// coordinate its colour is sampled from. A Producer fills the buffer on a
// dedicated goroutine by evaluating a ZoomPointFunction once per pixel,
// spreading the rows over a fixed worker pool. A Coordinator sits between
// the producer and the outside world: it stages filter-effect settings and
// resizes from any goroutine and commits them only at the safe point.
//
// # Quick Start
//
//	c, err := goom.NewCoordinator(800, 600)
//	if err != nil {
//	    return err
//	}
//	defer c.Shutdown()
//
//	if err := c.Start(); err != nil {
//	    return err
//	}
//
//	buf, _ := goom.NewTransformBuffer(800, 600)
//	for frame := range frames {
//	    c.CopyTransformBuffer(buf) // false until a pass completes
//	    warp(frame, buf)
//	    if err := c.Update(); err != nil {
//	        return err
//	    }
//	}
//
// # State Machine
//
// Each pass moves the producer through
//
//	AT_START -> IN_PROGRESS -> AT_END -> HAS_BEEN_COPIED -> AT_START
//
// Start is legal only from AT_START, MarkCopied only from AT_END and
// ResetToStart only from HAS_BEEN_COPIED. Finish forces AT_START from any
// state. Calls from any other state panic with a *ContractError.
//
// # Coordinate System
//
// Normalized coordinates run from -2 to +2 along the longer screen axis,
// with the same scale on both axes. See package coords.
package goom

// Version is the current version of the library.
const Version = "0.1.0"
