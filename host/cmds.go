package host

import "github.com/beevik/cmd"

var cmds *cmd.Tree

// Command descriptors in the order they are listed by the help command.
var commandList []cmd.CommandDescriptor

func init() {
	commandList = []cmd.CommandDescriptor{
		{
			Name:  "assemble",
			Brief: "Assemble a file and save the hex output",
			Description: "Run the assembler on the specified file," +
				" producing a hex file and source map file if successful." +
				" The result stays loaded for the words, disassemble, labels" +
				" and list commands. If you want verbose output, specify true" +
				" as a second parameter.",
			Usage: "assemble <filename> [<verbose>]",
			Data:  (*Host).cmdAssemble,
		},
		{
			Name:  "disassemble",
			Brief: "Disassemble loaded words",
			Description: "Disassemble words starting at the requested address." +
				" The address may be a number or a label. If no address is" +
				" given, disassembly continues where the last one stopped." +
				" Words in the data segment are shown as .word directives.",
			Usage: "disassemble [<address>] [<count>]",
			Data:  (*Host).cmdDisassemble,
		},
		{
			Name:        "help",
			Brief:       "Display help for a command",
			Description: "Display help for a command, or list all commands.",
			Usage:       "help [<command>]",
			Data:        (*Host).cmdHelp,
		},
		{
			Name:  "labels",
			Brief: "List labels",
			Description: "List all labels defined by the loaded source map." +
				" If a prefix is given, display the single label it" +
				" identifies.",
			Usage: "labels [<prefix>]",
			Data:  (*Host).cmdLabels,
		},
		{
			Name:  "list",
			Brief: "Display the source line for an address",
			Description: "Use the source map to display the source line that" +
				" produced the word at the requested address.",
			Usage: "list <address>",
			Data:  (*Host).cmdList,
		},
		{
			Name:  "load",
			Brief: "Load a hex file",
			Description: "Load words from a hex file, one word per line. If a" +
				" source map with the same prefix exists, it is loaded too.",
			Usage: "load <filename>",
			Data:  (*Host).cmdLoad,
		},
		{
			Name:        "quit",
			Brief:       "Quit the program",
			Description: "Quit the program.",
			Usage:       "quit",
			Data:        (*Host).cmdQuit,
		},
		{
			Name:  "save",
			Brief: "Save the loaded words to a hex file",
			Description: "Write the loaded words to a hex file. If no filename" +
				" is given, the hex file of the last assembly is rewritten.",
			Usage: "save [<filename>]",
			Data:  (*Host).cmdSave,
		},
		{
			Name:  "set",
			Brief: "Set a configuration variable",
			Description: "Set the value of a configuration variable. To see the" +
				" current values of all configuration variables, type set" +
				" without any arguments.",
			Usage: "set [<var> <value>]",
			Data:  (*Host).cmdSet,
		},
		{
			Name:  "words",
			Brief: "Dump loaded words",
			Description: "Dump words in hexadecimal starting at the requested" +
				" address. The address may be a number or a label. If no" +
				" address is given, the dump continues where the last one" +
				" stopped.",
			Usage: "words [<address>] [<count>]",
			Data:  (*Host).cmdWords,
		},
	}

	root := cmd.NewTree(cmd.TreeDescriptor{Name: "mipsasm"})
	for _, c := range commandList {
		root.AddCommand(c)
	}

	// Add command shortcuts.
	root.AddShortcut("a", "assemble")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("l", "list")
	root.AddShortcut("q", "quit")
	root.AddShortcut("w", "words")
	root.AddShortcut("?", "help")

	cmds = root
}

func findCommand(name string) *cmd.CommandDescriptor {
	for i := range commandList {
		if commandList[i].Name == name {
			return &commandList[i]
		}
	}
	return nil
}
