// Package observable provides the push-based value holders the game
// session exposes to its presentation layer.
//
// A Value broadcasts every change to its observers. Set stores and
// delivers in one step; Update stores immediately and hands the delivery
// back to the caller so it can run after the caller's own lock is released.
package observable
