package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/bookkeep/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the bkp command line for shell completion. It must
// name every registered subcommand.
var completion = &complete.Command{
	Flags: map[string]complete.Predictor{
		"book-file": predict.Files("*.json"),
		"v":         predict.Nothing,
	},
	Sub: map[string]*complete.Command{
		"add-account": {Flags: map[string]complete.Predictor{"balance": predict.Something, "c": predict.Something}},
		"accounts":    {},
		"add-category": {Flags: map[string]complete.Predictor{
			"kind": predict.Set{"income", "expense"},
		}},
		"categories": {},
		"add": {Flags: map[string]complete.Predictor{
			"a": predict.Something, "c": predict.Something,
			"kind":   predict.Set{"income", "expense"},
			"amount": predict.Something, "d": predict.Something, "desc": predict.Something,
		}},
		"ops": {Flags: map[string]complete.Predictor{
			"a": predict.Something, "head": predict.Something, "tail": predict.Something,
		}},
		"reconcile": {Flags: map[string]complete.Predictor{
			"a":      predict.Something,
			"mode":   predict.Set{"auto", "manual", "validate"},
			"target": predict.Something,
		}},
		"check": {Flags: map[string]complete.Predictor{"a": predict.Something}},
		"analyze": {Flags: map[string]complete.Predictor{
			"report": predict.Set{"balance", "categories", "average", "daily"},
			"s":      predict.Something, "d": predict.Something,
		}},
		"import": {Flags: map[string]complete.Predictor{
			"format": predict.Set{"csv", "json", "yaml"},
		}, Args: predict.Files("*")},
		"export": {Flags: map[string]complete.Predictor{
			"format": predict.Set{"csv", "json", "yaml"},
			"o":      predict.Files("*"),
		}},
	},
}

func main() {
	completion.Complete("bkp")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
