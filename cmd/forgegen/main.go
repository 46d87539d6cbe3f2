package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/calumari/forge/internal/generator"
	"github.com/calumari/forge/internal/logger"
)

// deriveVersion inspects build info for module version or vcs revision.
// preference order: module semantic version -> short commit hash -> "devel".
func deriveVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			return bi.Main.Version
		}
		var revision string
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				revision = s.Value
				break
			}
		}
		if len(revision) >= 12 { // short hash for readability
			return revision[:12]
		}
		if revision != "" {
			return revision
		}
	}
	return "devel"
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(csv string) []string {
	var out []string
	for p := range strings.SplitSeq(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	var (
		dir         string
		typesCSV    string
		suffix      string
		configFile  string
		dump        bool
		logLevel    string
		showVersion bool
	)
	flag.StringVar(&dir, "dir", ".", "Directory of the package to scan for annotated structs")
	flag.StringVar(&typesCSV, "type", "", "Comma-separated list of struct names to expand (default: every annotated struct)")
	flag.StringVar(&suffix, "suffix", "", "Suffix of generated files (default \"_builder.go\" or the config file value)")
	flag.StringVar(&configFile, "config", "", "Project config file (default: forge.yaml in -dir when present)")
	flag.BoolVar(&dump, "debug", false, "Dump the resolved options of every struct to stderr")
	flag.StringVar(&logLevel, "log-level", string(logger.InfoLevel), "Log level: debug, info, warn, error or disabled")
	flag.BoolVar(&showVersion, "version", false, "Print the version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nForgegen generates builders for structs annotated with //forge:builder.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  //go:generate go run github.com/calumari/forge/cmd/forgegen -type=User,Order\n")
	}
	flag.Parse()

	buildVersion := deriveVersion()
	if showVersion {
		fmt.Println("forgegen", buildVersion)
		return
	}

	types := splitList(typesCSV)

	// build a simplified canonical command representation instead of raw argv (which may include build cache paths)
	cmdParts := []string{"forgegen"}
	if dir != "." {
		cmdParts = append(cmdParts, "-dir="+dir)
	}
	if len(types) > 0 {
		cmdParts = append(cmdParts, "-type="+strings.Join(types, ","))
	}
	if suffix != "" {
		cmdParts = append(cmdParts, "-suffix="+suffix)
	}
	if configFile != "" {
		cmdParts = append(cmdParts, "-config="+configFile)
	}
	displayCmd := strings.Join(cmdParts, " ")

	cfg := logger.DefaultConfig()
	cfg.Level = logger.LogLevel(logLevel)
	log := logger.New(cfg)

	err := generator.Run(generator.Config{
		Dir:        dir,
		Types:      types,
		Suffix:     suffix,
		ConfigFile: configFile,
		Debug:      dump,
		Command:    displayCmd,
		Version:    buildVersion,
		Logger:     log,
	})
	if err != nil {
		log.Error("generation failed", "err", err)
		os.Exit(1)
	}
}
