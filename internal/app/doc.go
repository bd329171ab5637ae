// Package app sequences the FoxVault console session.
//
// The machine is a loop over State. Each state has a handler that renders
// its screen, collects input through the console, drives the store, audit
// log and session, and reports an Event. The pure function Next maps
// (State, Event) to the following state using the transitions table; any
// pair missing from the table goes to ExitApp.
//
// ExitApp is terminal: the loop stops, the shutdown sequence writes the
// final audit entry and closes the files, and Run returns an Outcome whose
// Reason the CLI maps to a process exit code.
//
// A store *IOError aborts the loop immediately; shutdown still runs.
package app
