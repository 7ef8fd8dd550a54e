/*
Package outbox contains the domain events written to the transactional outbox.

An Event is created in the same unit of work as the order change it describes and is
removed only after the transport accepted it:

	[row in outbox] --publish ok--> [row deleted]
	       ^                |
	       +--publish fail--+   (retried on the next drain)

Every Event carries a random EventID. A crash between the handoff and the deletion
leads to a second delivery with the same EventID, so consumers deduplicate on it.
*/
package outbox
