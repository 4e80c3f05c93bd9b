// Package session holds the registry of live Broadside sessions.
//
// A session exists from the moment two participants are paired until the
// match ends by victory or forfeit. The registry keeps a second index from
// participant id to session so that a participant can only be a member of one
// live session at a time, and so a disconnect can find the session to forfeit.
//
// Session IDs are 8 lowercase hex characters from crypto/rand and lookups are
// case-insensitive.
//
// Usage:
//
//	manager := session.NewManager(logger)
//
//	sess, err := manager.Create("", players, match)
//	if err != nil {
//		return err
//	}
//
//	sess, err = manager.FindByParticipant(participantID)
//	_ = manager.Delete(sess.ID)
//
// Sessions are not persisted. A restart drops every live match.
package session
