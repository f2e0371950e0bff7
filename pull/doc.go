// Package pull adds pull-to-refresh and pull-to-load-more to a scrollable
// Bubble Tea list.
//
// Dragging the content (or spinning the wheel) past the first row reveals a
// top indicator; once the overscroll passes MinPullDownDistance, releasing
// starts the refresh action. The bottom edge works the same way with
// MinPullUpDistance and the load-more action. While an action runs the list
// is held open, further pulls are ignored, and the indicator stays visible
// for at least MinDisplayTime. The list then snaps back and a ResolvedMsg
// reports the outcome.
//
// The pieces can be used on their own: Classify decides which gestures the
// list claims, Tracker owns scroll geometry, Machine is the state machine
// and Runner is the completion barrier. Model wires them into a viewport.
package pull
