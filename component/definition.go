package component

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/chrisuehlinger/eventdispatch/action"
)

// Definition describes a component type.
type Definition struct {
	// Name identifies the definition. Elements whose tag equals the
	// lowercased name are upgraded to components when rendered.
	Name string
	// TagName is the element created for top-level instances. Default "div".
	TagName string
	// Template is the inner HTML. Empty keeps existing children.
	Template string
	// Handlers maps logical event names to handlers.
	Handlers map[string]EventHandler
	// Actions maps action names to funcs.
	Actions map[string]ActionFunc
	// Bindings attach actions to elements of the rendered template.
	Bindings []Binding
}

// Binding attaches an action to the elements matching Selector inside the
// component, or to the component's own element when Selector is empty.
type Binding struct {
	Selector string
	// Action is an action name or an action.Func.
	Action  any
	Args    []any
	Options action.Options
}

func (d *Definition) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("component: definition has no name")
	}
	if d.TagName == "" {
		d.TagName = "div"
	}
	return nil
}

func (d *Definition) key() string {
	return strings.ToLower(d.Name)
}
