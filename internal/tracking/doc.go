// Package tracking implements the predictive multi-vehicle tracker.
//
// A Manager consumes one frame pair of lane blobs at a time. Each active
// Track is projected forward by the Predictor using piecewise linear
// regression over its recent bumper positions, falling back to dead
// reckoning once the speed is measured or the vehicle is leaving. Tracks
// are retired into VehicleRecords when they exit or fail, and the whole
// scene is dropped ("bailing") when it becomes too ambiguous to follow.
package tracking
