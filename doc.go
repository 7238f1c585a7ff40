/*
Package botcore is a dispatch engine for conversational chat bots.

Given a stream of inbound updates, it decides which command handles each one,
builds that command from validated and dependency-resolved inputs, executes it,
and remembers the continuations the conversation should expect next.

# Concept

Commands are plain Go types whose constructor declares what they need:
the update itself, the bot client, validated views of the update produced by
validators, or other commands. Registration happens once at startup in a
resolve.Catalog; the catalog checks every requirement graph, leaving out
commands that can never be built.

For every update, pending continuations of the conversation are tried first,
in registration order. Otherwise the static commands are tried: SuitableFirst
matchers, then ordinary ones, then SuitableLast fallbacks. Start commands only
open fresh conversations. The chosen command returns a domain.Response with
messages to send and, optionally, the next step: a forced continuation or a
group of candidates.

# Key Features

  - Type-safe registration through generic constructors.
  - Compiled construction routines cached per command type.
  - Strict per-conversation ordering, concurrency across conversations.
  - Handler faults and panics are contained to the failing turn.
  - Pluggable transports (Telegram long polling, webhooks, in-memory),
    distributed locking and update deduplication (memory, Redis).

# Usage

	cat := resolve.NewCatalog()
	resolve.MustRegister(
		resolve.Validator1(cat, validateHello),
		resolve.Command1(cat, domain.VariantStatic, NewEcho),
	)

	tg, err := telegram.New(os.Getenv("BOTCORE_TOKEN"))
	if err != nil {
		log.Fatal(err)
	}

	bot, err := botcore.New(cat, tg, tg, botcore.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	log.Fatal(bot.Run(ctx))
*/
package botcore
