/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/suparena/mapstore"
	"github.com/suparena/mapstore/config"
	"github.com/suparena/mapstore/keyvalue"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	versionFlag  = flag.Bool("version", false, "Show version information")
	vFlag        = flag.Bool("v", false, "Show version information (short)")
	configFlag   = flag.String("config", "", "Path to a YAML config file")
	keyspaceFlag = flag.String("keyspace", "default", "Keyspace to operate on")
	sortFlag     = flag.String("sort", "", "Property to sort list and find results by")
	descFlag     = flag.Bool("desc", false, "Sort descending")
	offsetFlag   = flag.Int("offset", 0, "Offset of the first list or find result")
	limitFlag    = flag.Int("limit", 0, "Maximum number of list or find results")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: mapstore [flags] <command> [args]

Commands:
  put <id> <json>   store a JSON document under id
  get <id>          print the document stored under id
  delete <id>       remove id
  count [query]     count documents, optionally matching a query
  list              print every document
  find <query>      print documents matching a query, e.g. "age > 30 AND name LIKE 'A%%'"
  clear             remove every document of the keyspace

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag || *vFlag {
		info := mapstore.GetVersionInfo()
		fmt.Printf("mapstore version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(context.Background(), flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "mapstore: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}

	store, err := mapstore.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	tmpl := store.Template()
	ks := *keyspaceFlag
	logger := store.Logger().With(zap.String("keyspace", ks))

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "put":
		if len(rest) != 2 {
			return fmt.Errorf("put needs <id> <json>")
		}
		var doc any
		if err := json.Unmarshal([]byte(rest[1]), &doc); err != nil {
			return fmt.Errorf("invalid document: %w", err)
		}
		previous, err := tmpl.Update(ctx, rest[0], doc, ks)
		if err != nil {
			return err
		}
		logger.Debug("stored", zap.String("id", rest[0]), zap.Bool("replaced", previous != nil))
		return nil

	case "get":
		if len(rest) != 1 {
			return fmt.Errorf("get needs <id>")
		}
		item, err := tmpl.FindByID(ctx, rest[0], ks)
		if err != nil {
			return err
		}
		return printJSON(item)

	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("delete needs <id>")
		}
		removed, err := tmpl.Delete(ctx, rest[0], ks)
		if err != nil {
			return err
		}
		if removed == nil {
			logger.Info("nothing to delete", zap.String("id", rest[0]))
		}
		return nil

	case "count":
		var n int64
		if len(rest) == 0 {
			n, err = tmpl.Count(ctx, ks)
		} else {
			n, err = tmpl.CountQuery(ctx, keyvalue.NewQuery(rest[0]), ks)
		}
		if err != nil {
			return err
		}
		fmt.Println(strconv.FormatInt(n, 10))
		return nil

	case "list":
		return find(ctx, tmpl, nil, ks)

	case "find":
		if len(rest) != 1 {
			return fmt.Errorf("find needs <query>")
		}
		return find(ctx, tmpl, rest[0], ks)

	case "clear":
		return tmpl.DeleteAll(ctx, ks)
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func find(ctx context.Context, tmpl *keyvalue.Template, criteria any, ks string) error {
	q := keyvalue.NewQuery(criteria).Skip(*offsetFlag).Limit(*limitFlag)
	if *sortFlag != "" {
		order := keyvalue.Asc(*sortFlag)
		if *descFlag {
			order = keyvalue.Desc(*sortFlag)
		}
		q.WithSort(keyvalue.SortBy(order))
	}

	items, err := tmpl.Find(ctx, q, ks)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := printJSON(item); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
