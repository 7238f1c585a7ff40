/*
Package dispatch routes one update to at most one command.

For every update the Dispatcher:

 1. derives the conversation key (keyless updates skip to step 4),
 2. takes the conversation's lock and prunes finished continuations,
 3. runs the first pending continuation that accepts the update, if any,
 4. otherwise builds the static commands that resolve for the update and runs
    the first suitable one (SuitableFirst, then Suitable, then SuitableLast),
 5. drops the update when nothing matched,
 6. records the command's next step in the conversation.

A failed or panicking command leaves the conversation untouched.
*/
package dispatch
