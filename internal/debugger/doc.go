// Package debugger implements the client side of a remote script debug session.
//
// A Session owns three pieces of state, all guarded by one mutex:
//
//   - the connection state machine (Disconnected, Connecting, Connected) and its epoch,
//   - the Synchronizer, which maps breakpoint keys to server ids and queues intents
//     recorded while no connection exists,
//   - the ExecutionController, which holds one ExecutionStack per suspended thread.
//
// Client calls run on their own goroutines. Their replies are applied under the mutex
// and dropped when the connection they were issued on has ended. Host notifications are
// delivered in order by a single goroutine after the mutex is released.
package debugger
