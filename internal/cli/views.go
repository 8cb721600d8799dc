package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/usestring/vra-mcp/internal/render"
	"github.com/usestring/vra-mcp/pkg/client"
)

// The list types below marshal exactly like the SDK records they wrap, so
// json/yaml output and --query see the vRA field names.

type groupList []client.BusinessGroup

func (l groupList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, g := range l {
		rows = append(rows, []string{g.Name, g.ID, g.Description})
	}
	return []string{"NAME", "ID", "DESCRIPTION"}, rows
}

type catalogList []client.EntitledCatalogItem

func (l catalogList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		service := ""
		if e.CatalogItem.ServiceRef != nil {
			service = e.CatalogItem.ServiceRef.Label
		}
		rows = append(rows, []string{e.Name(), e.ID(), service, e.CatalogItem.Status})
	}
	return []string{"NAME", "ID", "SERVICE", "STATUS"}, rows
}

type resourceList []client.ConsumerResource

func (l resourceList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		owner := ""
		if len(r.Owners) > 0 {
			owner = r.Owners[0].Ref
		}
		rows = append(rows, []string{r.Name, r.ID, r.TypeID(), r.Status, owner})
	}
	return []string{"NAME", "ID", "TYPE", "STATUS", "OWNER"}, rows
}

type roleList []client.Role

func (l roleList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		scope := ""
		if r.ScopeType != nil {
			scope = r.ScopeType.ID
		}
		rows = append(rows, []string{r.Name, r.ID, scope})
	}
	return []string{"NAME", "ID", "SCOPE"}, rows
}

type requestList []client.CatalogRequest

func (l requestList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{
			strconv.Itoa(r.RequestNumber), r.ID, r.RequestedItemName, r.State, r.Phase, formatTime(r.DateCreated),
		})
	}
	return []string{"#", "ID", "ITEM", "STATE", "PHASE", "CREATED"}, rows
}

type reservationList []client.ReservationInfo

func (l reservationList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{
			r.Name, r.ID, r.ReservationTypeName, r.SubTenantName,
			strconv.FormatBool(r.Enabled), fmt.Sprintf("%.0f%%", r.AllocationPercentage),
		})
	}
	return []string{"NAME", "ID", "TYPE", "BUSINESS GROUP", "ENABLED", "ALLOCATED"}, rows
}

type eventList []client.Event

func (l eventList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{e.ID, e.TopicID, e.SourceType, e.UserName, fmt.Sprint(e.TimeStamp)})
	}
	return []string{"ID", "TOPIC", "SOURCE", "USER", "TIMESTAMP"}, rows
}

// requestView shows a single request as label/value pairs.
type requestView client.CatalogRequest

func (r requestView) String() string {
	pairs := [][2]string{
		{"ID", r.ID},
		{"Number", strconv.Itoa(r.RequestNumber)},
		{"Item", r.RequestedItemName},
		{"State", r.State},
		{"Phase", r.Phase},
		{"Requested by", r.RequestedBy},
		{"Requested for", r.RequestedFor},
		{"Created", formatTime(r.DateCreated)},
		{"Completed", formatTime(r.DateCompleted)},
	}
	if r.RequestCompletion != nil && r.RequestCompletion.CompletionDetails != "" {
		pairs = append(pairs, [2]string{"Details", r.RequestCompletion.CompletionDetails})
	}
	return render.KeyValues(pairs)
}

// templateView prints a request template as indented JSON in table mode.
type templateView struct {
	*client.RequestTemplate
}

func (t templateView) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.RequestTemplate)
}

func (t templateView) String() string {
	data, err := json.MarshalIndent(t.RequestTemplate, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// deploymentNode is the serializable form of a deployment tree.
type deploymentNode struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Kind       string           `json:"kind"`
	Type       string           `json:"type,omitempty"`
	Status     string           `json:"status,omitempty"`
	Operations []string         `json:"operations,omitempty"`
	Children   []deploymentNode `json:"children,omitempty"`
}

func newDeploymentNode(d *client.Deployment) deploymentNode {
	n := deploymentNode{
		ID:     d.Resource.ID,
		Name:   d.Resource.Name,
		Kind:   d.Kind(),
		Type:   d.Resource.TypeID(),
		Status: d.Resource.Status,
	}
	for _, op := range d.Resource.Operations {
		n.Operations = append(n.Operations, op.Name)
	}
	for _, c := range d.Children {
		n.Children = append(n.Children, newDeploymentNode(c))
	}
	return n
}

// deploymentView renders a deployment as an indented tree.
type deploymentView struct {
	d *client.Deployment
}

func (v deploymentView) MarshalJSON() ([]byte, error) {
	return json.Marshal(newDeploymentNode(v.d))
}

func (v deploymentView) String() string {
	var b strings.Builder
	v.d.Walk(func(depth int, n *client.Deployment) {
		if depth > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s%s [%s] %s", strings.Repeat("  ", depth), n.Resource.Name, n.Kind(), n.Resource.ID)
		if n.Resource.Status != "" {
			fmt.Fprintf(&b, " (%s)", n.Resource.Status)
		}
		if len(n.Resource.Operations) > 0 {
			names := make([]string, 0, len(n.Resource.Operations))
			for _, op := range n.Resource.Operations {
				names = append(names, op.Name)
			}
			fmt.Fprintf(&b, "\n%s  operations: %s", strings.Repeat("  ", depth), strings.Join(names, ", "))
		}
	})
	return b.String()
}

// summary is the result of the report command.
type summary struct {
	Host              string         `json:"host"`
	Tenant            string         `json:"tenant"`
	BusinessGroups    int            `json:"businessGroups"`
	CatalogItems      int            `json:"catalogItems"`
	Resources         int            `json:"resources"`
	ResourcesByStatus map[string]int `json:"resourcesByStatus"`
	Requests          int            `json:"requests"`
	RequestsByState   map[string]int `json:"requestsByState"`
}

func (s summary) String() string {
	pairs := [][2]string{
		{"Host", s.Host},
		{"Tenant", s.Tenant},
		{"Business groups", strconv.Itoa(s.BusinessGroups)},
		{"Catalog items", strconv.Itoa(s.CatalogItems)},
		{"Resources", strconv.Itoa(s.Resources) + countsSuffix(s.ResourcesByStatus)},
		{"Requests", strconv.Itoa(s.Requests) + countsSuffix(s.RequestsByState)},
	}
	return render.KeyValues(pairs)
}

func countsSuffix(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
