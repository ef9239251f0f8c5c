// Package history provides URL stores for the router's navigation
// controller.
//
// Memory keeps an in-process stack of URLs and is the default backend.
// Remote mirrors the URL bar of a peer connected over a websocket: the
// router writes push, replace and go frames, and the peer reports the
// locations it moves to with pop frames.
//
// Both types satisfy router.Backend without importing the router.
package history
