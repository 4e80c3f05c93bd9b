// Package matchmaking provides the FIFO waiting queue that pairs anonymous
// participants into matches. There is no ranking: the first two participants
// ready to play are matched, in arrival order.
package matchmaking
