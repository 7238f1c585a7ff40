/*
Package resolve builds commands from their declared inputs.

Command and validator constructors are registered in a Catalog together with the
types they consume. For every update, a Builder walks the requirement graph of a
command: the Update and the Client are always available, validator outputs are
produced by running the validator on its own resolved inputs, and other commands
are built recursively. If any input is missing the command is simply absent;
resolution never fails loudly.

Two builders are provided and always agree:

  - Resolver walks the graph on every call. It is the reference implementation.
  - Compiler sorts the graph once per command type and caches a straight-line
    construction routine, which is what the dispatcher uses by default.

# Usage

	cat := resolve.NewCatalog()
	resolve.MustRegister(
		resolve.Validator1(cat, func(u *domain.Update) (Greeting, bool) {
			return Greeting{Update: u}, u.Text == "hello"
		}),
		resolve.Command1(cat, domain.VariantStatic, NewEchoCommand),
	)
	if err := cat.Seal(); err != nil {
		log.Println(err) // broken commands are disabled, the rest keep working
	}
*/
package resolve
