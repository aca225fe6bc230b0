package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/RowanDark/shiftcipher/internal/cipher"
	"github.com/RowanDark/shiftcipher/internal/logging"
)

func runRecipe(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "recipe subcommand required (save, list, run, delete)")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  shiftctl recipe save --name N --step op[:shift] ...   - Save a pipeline")
		fmt.Fprintln(os.Stderr, "  shiftctl recipe save --file recipe.yml                 - Save a pipeline from YAML or JSON")
		fmt.Fprintln(os.Stderr, "  shiftctl recipe list [--search Q]                      - List saved pipelines")
		fmt.Fprintln(os.Stderr, "  shiftctl recipe run --name N [--reverse] [--text T]    - Run a pipeline")
		fmt.Fprintln(os.Stderr, "  shiftctl recipe delete --name N                        - Delete a pipeline")
		return 2
	}

	switch args[0] {
	case "save":
		return runRecipeSave(args[1:])
	case "list":
		return runRecipeList(args[1:])
	case "run":
		return runRecipeRun(args[1:])
	case "delete":
		return runRecipeDelete(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown recipe subcommand: %s\n", args[0])
		return 2
	}
}

// stepsFlag collects repeated --step op[:shift] values.
type stepsFlag []cipher.OperationConfig

func (s *stepsFlag) String() string {
	parts := make([]string, len(*s))
	for i, step := range *s {
		parts[i] = step.Name
	}
	return strings.Join(parts, ",")
}

func (s *stepsFlag) Set(value string) error {
	name, shift, hasShift := strings.Cut(strings.TrimSpace(value), ":")
	if name == "" {
		return fmt.Errorf("step %q has no operation name", value)
	}
	step := cipher.OperationConfig{Name: name}
	if hasShift {
		n, err := strconv.Atoi(strings.TrimSpace(shift))
		if err != nil {
			return fmt.Errorf("step %q: shift must be an integer", value)
		}
		step.Parameters = map[string]interface{}{"shift": n}
	}
	*s = append(*s, step)
	return nil
}

func openRecipes(sess *session) (*cipher.RecipeManager, error) {
	rm := cipher.NewRecipeManager(sess.cfg.RecipesDir)
	if err := rm.LoadRecipes(); err != nil {
		return nil, err
	}
	return rm, nil
}

func loadRecipeFile(path string) (*cipher.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe %s: %w", path, err)
	}
	var recipe cipher.Recipe
	// YAML is a superset of JSON, so one decoder reads both.
	if err := yaml.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("parse recipe %s: %w", path, err)
	}
	return &recipe, nil
}

func runRecipeSave(args []string) int {
	fs := flag.NewFlagSet("recipe save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "Recipe name")
	description := fs.String("description", "", "Recipe description")
	tags := fs.String("tags", "", "Comma-separated tags")
	file := fs.String("file", "", "Read the recipe from a YAML or JSON file")
	oneWay := fs.Bool("one-way", false, "Mark the pipeline as not reversible")
	var steps stepsFlag
	fs.Var(&steps, "step", "Pipeline step as op[:shift]; repeat for more steps")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	recipe := &cipher.Recipe{Pipeline: cipher.Pipeline{Reversible: true}}
	if *file != "" {
		loaded, err := loadRecipeFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "recipe save: %v\n", err)
			return 1
		}
		recipe = loaded
	}
	if *name != "" {
		recipe.Name = *name
	}
	if *description != "" {
		recipe.Description = *description
	}
	if *tags != "" {
		recipe.Tags = splitTags(*tags)
	}
	if len(steps) > 0 {
		recipe.Pipeline.Operations = steps
	}
	if flagWasSet(fs, "one-way") {
		recipe.Pipeline.Reversible = !*oneWay
	}

	sess, err := openSession("shiftctl.recipe")
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipe save: %v\n", err)
		return 1
	}
	defer sess.Close()

	rm, err := openRecipes(sess)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipe save: %v\n", err)
		return 1
	}
	if err := rm.SaveRecipe(recipe); err != nil {
		fmt.Fprintf(os.Stderr, "recipe save: %v\n", err)
		return 1
	}
	sess.emit(logging.AuditEvent{
		EventType: logging.EventRecipeSaved,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"recipe": recipe.Name, "steps": len(recipe.Pipeline.Operations)},
	})
	fmt.Printf("saved recipe %s\n", recipe.Name)
	return 0
}

func splitTags(raw string) []string {
	var out []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func runRecipeList(args []string) int {
	fs := flag.NewFlagSet("recipe list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	search := fs.String("search", "", "Only list recipes matching this name, description or tag")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sess, err := openSession("shiftctl.recipe")
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipe list: %v\n", err)
		return 1
	}
	defer sess.Close()

	rm, err := openRecipes(sess)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipe list: %v\n", err)
		return 1
	}

	recipes := rm.ListRecipes()
	if *search != "" {
		recipes = rm.SearchRecipes(*search)
	}
	if len(recipes) == 0 {
		fmt.Println("No recipes saved")
		return 0
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "NAME\tSTEPS\tTAGS\tDESCRIPTION")
	for _, r := range recipes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, describeSteps(r.Pipeline), strings.Join(r.Tags, ","), r.Description)
	}
	return 0
}

func describeSteps(p cipher.Pipeline) string {
	parts := make([]string, len(p.Operations))
	for i, step := range p.Operations {
		if shift, ok := step.Parameters["shift"]; ok {
			parts[i] = fmt.Sprintf("%s:%v", step.Name, shift)
			continue
		}
		parts[i] = step.Name
	}
	return strings.Join(parts, " -> ")
}

func runRecipeRun(args []string) int {
	fs := flag.NewFlagSet("recipe run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "Recipe name")
	text := fs.String("text", "", "Input text (reads stdin when omitted)")
	reverse := fs.Bool("reverse", false, "Run the inverse pipeline")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "recipe run: --name is required")
		return 2
	}

	sess, err := openSession("shiftctl.recipe")
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipe run: %v\n", err)
		return 1
	}
	defer sess.Close()

	rm, err := openRecipes(sess)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipe run: %v\n", err)
		return 1
	}
	recipe, ok := rm.GetRecipe(*name)
	if !ok {
		fmt.Fprintf(os.Stderr, "recipe run: no recipe named %s\n", *name)
		return 1
	}

	pipeline := &recipe.Pipeline
	if *reverse {
		pipeline, err = recipe.Pipeline.Reverse()
		if err != nil {
			fmt.Fprintf(os.Stderr, "recipe run: %v\n", err)
			return 1
		}
	}

	input, err := readInput(*text, flagWasSet(fs, "text"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipe run: %v\n", err)
		return 1
	}

	ctx, cancel := interruptContext()
	defer cancel()

	out, err := pipeline.Execute(ctx, []byte(input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipe run: %v\n", err)
		return exitCode(err)
	}
	sess.emit(logging.AuditEvent{
		EventType: logging.EventPipelineRun,
		Decision:  logging.DecisionInfo,
		Metadata:  map[string]any{"recipe": recipe.Name, "reverse": *reverse, "text": input},
	})
	fmt.Println(string(out))
	return 0
}

func runRecipeDelete(args []string) int {
	fs := flag.NewFlagSet("recipe delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "Recipe name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "recipe delete: --name is required")
		return 2
	}

	sess, err := openSession("shiftctl.recipe")
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipe delete: %v\n", err)
		return 1
	}
	defer sess.Close()

	rm, err := openRecipes(sess)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipe delete: %v\n", err)
		return 1
	}
	if _, ok := rm.GetRecipe(*name); !ok {
		fmt.Fprintf(os.Stderr, "recipe delete: no recipe named %s\n", *name)
		return 1
	}
	if err := rm.DeleteRecipe(*name); err != nil {
		fmt.Fprintf(os.Stderr, "recipe delete: %v\n", err)
		return 1
	}
	sess.emit(logging.AuditEvent{
		EventType: logging.EventRecipeDeleted,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"recipe": *name},
	})
	fmt.Printf("deleted recipe %s\n", *name)
	return 0
}
