// Command styledump parses an HTML document, compiles its stylesheets
// and prints the applicable declarations for every element as a tree.
//
// Author styles come from the document's <style> elements and any extra
// sheets passed on the command line; the bundled user agent sheet is
// always included.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
	"go.uber.org/zap"

	"github.com/marlinbrowser/marlin/dom"
	"github.com/marlinbrowser/marlin/domadapter"
	"github.com/marlinbrowser/marlin/media"
	"github.com/marlinbrowser/marlin/shared"
	"github.com/marlinbrowser/marlin/sheet"
	"github.com/marlinbrowser/marlin/style"
)

var (
	flagWidth   float64
	flagHeight  float64
	flagMedium  string
	flagUA      []string
	flagUser    []string
	flagAuthor  []string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "styledump FILE",
	Short: "Dump the applicable CSS declarations for every element in an HTML file",
	Args:  cobra.ExactArgs(1),
	RunE:  run,

	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().Float64Var(&flagWidth, "width", 1024, "viewport width in CSS pixels")
	rootCmd.Flags().Float64Var(&flagHeight, "height", 768, "viewport height in CSS pixels")
	rootCmd.Flags().StringVar(&flagMedium, "medium", "screen", "media type (screen or print)")
	rootCmd.Flags().StringSliceVar(&flagUA, "ua", nil, "extra user agent stylesheet file (repeatable)")
	rootCmd.Flags().StringSliceVar(&flagUser, "user", nil, "user stylesheet file (repeatable)")
	rootCmd.Flags().StringSliceVar(&flagAuthor, "author", nil, "extra author stylesheet file (repeatable)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

func run(cmd *cobra.Command, args []string) error {
	logger := zap.NewNop()
	if flagVerbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	device, err := deviceFromFlags()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	doc, err := dom.ParseHTML(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	stylist := style.NewStylist(device, style.WithLogger(logger))
	stylist.AddStylesheet(sheet.UserAgent())

	for i, text := range doc.StyleTexts() {
		ss, err := sheet.Parse(text, sheet.OriginAuthor)
		if err != nil {
			logger.Warn("skipping malformed style element",
				zap.Int("index", i), zap.Error(err))
			continue
		}
		stylist.AddStylesheet(ss)
	}
	for _, set := range []struct {
		paths  []string
		origin sheet.Origin
	}{
		{flagUA, sheet.OriginUserAgent},
		{flagUser, sheet.OriginUser},
		{flagAuthor, sheet.OriginAuthor},
	} {
		for _, path := range set.paths {
			text, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			ss, err := sheet.Parse(string(text), set.origin)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			stylist.AddStylesheet(ss)
		}
	}
	stylist.Update()

	tree := treeprint.NewWithRoot(args[0])
	if root := doc.Root(); root != nil {
		dumpElement(stylist, root, tree)
	}
	fmt.Fprint(cmd.OutOrStdout(), tree.String())
	return nil
}

func deviceFromFlags() (media.Device, error) {
	d := media.Device{Width: flagWidth, Height: flagHeight}
	switch strings.ToLower(flagMedium) {
	case "screen":
		d.Medium = media.MediumScreen
	case "print":
		d.Medium = media.MediumPrint
	default:
		return d, fmt.Errorf("unknown medium %q", flagMedium)
	}
	return d, nil
}

func dumpElement(stylist *style.Stylist, el *dom.Element, branch treeprint.Tree) {
	node := branch.AddBranch(elementLabel(el))

	var list style.ApplicableDeclarationList
	ctx := &style.MatchingContext{}
	stylist.PushApplicableDeclarations(domadapter.Wrap(el), style.PseudoNone,
		styleAttributeOf(el), nil, style.AnimationRules{}, &list, ctx,
		style.CollectorOptions{})
	for _, block := range list {
		node.AddNode(blockLabel(block))
	}

	el.EachChildElement(func(child *dom.Element) {
		dumpElement(stylist, child, node)
	})
}

func styleAttributeOf(el *dom.Element) *shared.Arc[sheet.DeclarationBlock] {
	text, ok := el.GetAttr("", "style")
	if !ok || strings.TrimSpace(text) == "" {
		return nil
	}
	block, err := sheet.ParseDeclarationBlock(text)
	if err != nil {
		return nil
	}
	return &block
}

func elementLabel(el *dom.Element) string {
	var b strings.Builder
	b.WriteString(el.LocalName)
	if id := el.ID(); id != "" {
		b.WriteString("#")
		b.WriteString(id)
	}
	el.EachClass(func(class string) {
		b.WriteString(".")
		b.WriteString(class)
	})
	return b.String()
}

func blockLabel(block style.ApplicableDeclarationBlock) string {
	decls := block.Block.Get().Declarations
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		s := d.Property + ": " + d.Value
		if d.Important {
			s += " !important"
		}
		parts = append(parts, s)
	}
	sort.Strings(parts)
	return fmt.Sprintf("[%s] { %s }", block.Level, strings.Join(parts, "; "))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
