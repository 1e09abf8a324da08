/*
Package session runs machines step by step across requests and processes.

A session is a persisted domain.RunState. The Manager serializes access to
each session with an in-process lock and, when configured, a distributed
lock shared by every replica, then delegates storage to a ports.StateStore.
*/
package session
