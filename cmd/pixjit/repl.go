/*
Copyright (C) 2024-2026  Carl-Philip Hänsch
Copyright (C) 2013  Pieter Kelchtermans (originally licensed unter WTFPL 2.0)

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/launix-de/pixeljit/pixel"
)

const replPrompt = "\033[32mpixjit>\033[0m "
const replResult = "\033[31m=\033[0m "

// cmdRepl runs an interactive loop: each line names a registered kernel and
// a PNG path, the kernel is compiled once per session and reused across
// repeated invocations of ":run". Typing a bare kernel name lists its
// description; ":run <kernel> <in.png> <out.png>" compiles (if needed,
// caching by name) and executes it.
func cmdRepl(args []string) {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	fs.Parse(args)

	l, err := readline.NewEx(&readline.Config{
		Prompt:            replPrompt,
		HistoryFile:       ".pixjit-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	cache := map[string]*pixel.CompiledChain{}
	defer func() {
		for _, cc := range cache {
			cc.Close()
		}
	}()

	fmt.Println(`type a kernel name to see its description, ":run <kernel> <in.png> <out.png>" to
execute it, ":list" to see every registered kernel, or Ctrl-D to exit.`)

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			panic(err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Println("panic:", r)
				}
			}()
			handleReplLine(line, cache)
		}()
	}
}

func handleReplLine(line string, cache map[string]*pixel.CompiledChain) {
	fields := strings.Fields(line)
	switch {
	case fields[0] == ":list":
		for _, name := range pixel.PresetNames() {
			k, _ := pixel.LookupPreset(name)
			fmt.Printf("  %-18s %s\n", k.Name, k.Description)
		}
	case fields[0] == ":run":
		if len(fields) != 4 {
			fmt.Println("usage: :run <kernel> <in.png> <out.png>")
			return
		}
		name, inPath, outPath := fields[1], fields[2], fields[3]
		cc, ok := cache[name]
		if !ok {
			preset, found := pixel.LookupPreset(name)
			if !found {
				fmt.Printf("unknown kernel %q\n", name)
				return
			}
			var err error
			cc, err = pixel.Compile(preset.Build(pixel.ImageSource(0)))
			if err != nil {
				fmt.Println(replResult, "compile error:", err)
				return
			}
			cache[name] = cc
		}
		view, err := loadGray8(inPath)
		if err != nil {
			fmt.Println(replResult, "load error:", err)
			return
		}
		result, err := cc.RunOn([]pixel.ImageView{view})
		if err != nil {
			fmt.Println(replResult, "run error:", err)
			return
		}
		if err := saveGray8(outPath, result); err != nil {
			fmt.Println(replResult, "write error:", err)
			return
		}
		fmt.Println(replResult, outPath, "written")
	default:
		preset, ok := pixel.LookupPreset(fields[0])
		if !ok {
			fmt.Printf("unknown kernel %q, try :list\n", fields[0])
			return
		}
		fmt.Println(replResult, preset.Description)
	}
}
