package inventory

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Recipe turns a set of ingredients into one unit of its product.
type Recipe struct {
	Name        string
	Ingredients map[string]int
}

// Product returns the item name crafting this recipe yields.
func (r *Recipe) Product() string { return Normalize(r.Name) }

// Validate checks that the recipe has a name and positive ingredient counts.
func (r *Recipe) Validate() error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(r.Ingredients) == 0 {
		errs = append(errs, errors.New("at least one ingredient is required"))
	}
	for name, q := range r.Ingredients {
		if q <= 0 {
			errs = append(errs, fmt.Errorf("ingredient %q needs a positive quantity, got %d", name, q))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("recipe %q: %w", r.Name, errors.Join(errs...))
	}
	return nil
}

// Missing returns the ingredients b lacks for r, mapped to the shortfall.
func (r *Recipe) Missing(b *Bag) map[string]int {
	out := make(map[string]int)
	for name, need := range r.Ingredients {
		if have := b.Quantity(name); have < need {
			out[Normalize(name)] = need - have
		}
	}
	return out
}

// Craft consumes r's ingredients from b and adds one unit of its product.
//
// Postcondition: on success every ingredient is reduced by its quantity and
// Quantity(r.Product()) increases by one; on error b is unchanged.
func (r *Recipe) Craft(b *Bag) error {
	if missing := r.Missing(b); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for n := range missing {
			names = append(names, n)
		}
		sort.Strings(names)
		return fmt.Errorf("crafting %s: missing %v: %w", r.Name, names, ErrInsufficient)
	}
	for name, need := range r.Ingredients {
		if err := b.Remove(name, need); err != nil {
			return fmt.Errorf("crafting %s: %w", r.Name, err)
		}
	}
	return b.Add(r.Product(), 1)
}

// RecipeBook indexes recipes by normalised name.
type RecipeBook struct {
	recipes map[string]*Recipe
}

// yamlRecipeFile is the top-level YAML structure for recipe files.
type yamlRecipeFile struct {
	Recipes map[string]map[string]int `yaml:"recipes"`
}

// NewRecipeBook builds a RecipeBook from validated recipes.
//
// Postcondition: Returns an error on an invalid or duplicate recipe.
func NewRecipeBook(recipes ...*Recipe) (*RecipeBook, error) {
	rb := &RecipeBook{recipes: make(map[string]*Recipe, len(recipes))}
	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		key := Normalize(r.Name)
		if _, dup := rb.recipes[key]; dup {
			return nil, fmt.Errorf("duplicate recipe %q", r.Name)
		}
		rb.recipes[key] = r
	}
	return rb, nil
}

// LoadRecipesFromBytes parses a recipes YAML document.
func LoadRecipesFromBytes(data []byte) (*RecipeBook, error) {
	var file yamlRecipeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing recipes YAML: %w", err)
	}
	recipes := make([]*Recipe, 0, len(file.Recipes))
	for name, ingredients := range file.Recipes {
		recipes = append(recipes, &Recipe{Name: name, Ingredients: ingredients})
	}
	return NewRecipeBook(recipes...)
}

// LoadRecipesFromFile reads and parses the recipes file at path.
func LoadRecipesFromFile(path string) (*RecipeBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipes file %s: %w", path, err)
	}
	rb, err := LoadRecipesFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return rb, nil
}

// Recipe looks up a recipe by name, ignoring case.
func (rb *RecipeBook) Recipe(name string) (*Recipe, bool) {
	r, ok := rb.recipes[Normalize(name)]
	return r, ok
}

// All returns every recipe sorted by name.
func (rb *RecipeBook) All() []*Recipe {
	out := make([]*Recipe, 0, len(rb.recipes))
	for _, r := range rb.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of recipes.
func (rb *RecipeBook) Len() int { return len(rb.recipes) }
