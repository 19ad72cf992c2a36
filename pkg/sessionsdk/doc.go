/*
Package sessionsdk implements the session and portal authorization model for
SynkCRM clients.

# Overview

The package binds an authenticated Identity to the single Portal (admin or
partner) it may enter, and owns that pair as the current Session. It is
organized around four pieces:

  - Directory: the identity directory backend (live HTTP or local demo)
  - Resolver: exchanges credentials for a Session, with a static fallback
  - PortalAuthorizer: validates the profile portal mapping
  - Manager: the session store, state machine and change notifier

# Usage

Create a Manager over a directory backend and restore any existing session:

	directory := sessionsdk.NewHTTPDirectory("https://directory.example.com")
	manager := sessionsdk.NewManager(directory, sessionsdk.ManagerOptions{})

	snap := manager.Restore(ctx)
	if snap.Authenticated() {
		// route to snap.Portal
	}

Log in and out:

	if manager.Login(ctx, email, password) {
		portal := manager.Snapshot().Portal
		// route to the resolved portal
	}

	manager.Logout(ctx)

React to session changes, including ones reported by the directory itself
(external sign-out, token refresh, another client signing in):

	unsubscribe := manager.Subscribe(func(snap sessionsdk.Snapshot) {
		// re-render gated views from snap
	})
	defer unsubscribe()

	go manager.Watch(ctx)

# Fallback credentials

Two static demo credentials (one per portal) are honoured when, and only
when, the directory is unreachable. A session obtained this way can be
persisted through a FallbackStore and restored verbatim on the next start.
An explicit invalid-credentials answer from the directory never falls
through to the static table.

# Concurrency

The Manager is the single writer of the session; all operations are safe for
concurrent use. Commits carry a generation: when operations overlap, only
the newest commits, and Logout bumps the generation before doing any I/O so
it always wins over an in-flight Login.
*/
package sessionsdk
