// Package main provides the entry point for the GuildGate service.
// GuildGate is the access-control engine for a community platform: it
// decides, for every actor and every action, whether that action is
// permitted. It covers group membership with a four-level role hierarchy,
// the join-request workflow, and platform-wide time-bounded user bans,
// and exposes those decisions through a JSON API backed by gorm.
package main
