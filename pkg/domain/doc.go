/*
Package domain contains the core domain models of the bot dispatch engine.

It defines the inbound unit of work (Update), the handler contracts (Command and its
optional matching capabilities), the Response a handler returns, and the opaque output
messages forwarded to the transport. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Update: One inbound event from the chat platform (message, callback, query).
  - Command: A unit of behavior selected and executed for exactly one Update.
  - Response: Output messages plus the next step (None, Forced, Candidates).
  - Message: A payload produced by a Command that the transport knows how to deliver.
*/
package domain
