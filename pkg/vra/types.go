package vra

import (
	"encoding/json"
	"strconv"
	"time"
)

// PageMetadata carries the page counters of page/limit style listings.
type PageMetadata struct {
	Size          int `json:"size"          yaml:"size"`
	TotalElements int `json:"totalElements" yaml:"totalElements"`
	TotalPages    int `json:"totalPages"    yaml:"totalPages"`
	Number        int `json:"number"        yaml:"number"`
	Offset        int `json:"offset"        yaml:"offset"`
}

// ListEnvelope is a single page of a list endpoint. Skip/top style listings
// report TotalPages at the top level, page/limit style listings inside
// Metadata.
type ListEnvelope struct {
	Content       []json.RawMessage `json:"content"                 yaml:"content"`
	TotalPages    int               `json:"totalPages"              yaml:"totalPages"`
	TotalElements int               `json:"totalElements,omitempty" yaml:"totalElements,omitempty"`
	Metadata      *PageMetadata     `json:"metadata,omitempty"      yaml:"metadata,omitempty"`
}

// Organization identifies the tenant and business group owning an object.
type Organization struct {
	TenantRef      string `json:"tenantRef,omitempty"      yaml:"tenantRef,omitempty"`
	TenantLabel    string `json:"tenantLabel,omitempty"    yaml:"tenantLabel,omitempty"`
	SubtenantRef   string `json:"subtenantRef,omitempty"   yaml:"subtenantRef,omitempty"`
	SubtenantLabel string `json:"subtenantLabel,omitempty" yaml:"subtenantLabel,omitempty"`
}

// Ref is a reference to another object by ID.
type Ref struct {
	ID    string `json:"id"              yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// ProviderBinding links a catalog item to its blueprint.
type ProviderBinding struct {
	BindingID   string `json:"bindingId"             yaml:"bindingId"`
	ProviderRef *Ref   `json:"providerRef,omitempty" yaml:"providerRef,omitempty"`
}

// CatalogItem is a provisionable blueprint exposed by the catalog.
type CatalogItem struct {
	ID              string           `json:"id"                        yaml:"id"`
	Name            string           `json:"name"                      yaml:"name"`
	Description     string           `json:"description,omitempty"     yaml:"description,omitempty"`
	Status          string           `json:"status,omitempty"          yaml:"status,omitempty"`
	Organization    *Organization    `json:"organization,omitempty"    yaml:"organization,omitempty"`
	ProviderBinding *ProviderBinding `json:"providerBinding,omitempty" yaml:"providerBinding,omitempty"`
}

// TenantID returns the owning tenant, if any.
func (c *CatalogItem) TenantID() string {
	if c.Organization == nil {
		return ""
	}

	return c.Organization.TenantRef
}

// TenantName returns the owning tenant's label, if any.
func (c *CatalogItem) TenantName() string {
	if c.Organization == nil {
		return ""
	}

	return c.Organization.TenantLabel
}

// SubtenantID returns the owning business group, if any.
func (c *CatalogItem) SubtenantID() string {
	if c.Organization == nil {
		return ""
	}

	return c.Organization.SubtenantRef
}

// SubtenantName returns the owning business group's label, if any.
func (c *CatalogItem) SubtenantName() string {
	if c.Organization == nil {
		return ""
	}

	return c.Organization.SubtenantLabel
}

// BlueprintID returns the blueprint bound to the item, if any.
func (c *CatalogItem) BlueprintID() string {
	if c.ProviderBinding == nil {
		return ""
	}

	return c.ProviderBinding.BindingID
}

// EntitledCatalogItem wraps a catalog item the caller is entitled to.
type EntitledCatalogItem struct {
	CatalogItem CatalogItem `json:"catalogItem" yaml:"catalogItem"`
}

// CatalogSourceConfig is the source specific configuration.
type CatalogSourceConfig struct {
	SourceProjectID string `json:"sourceProjectId,omitempty" yaml:"sourceProjectId,omitempty"`
}

// CatalogSource is a content source feeding the catalog.
type CatalogSource struct {
	ID          string              `json:"id"                    yaml:"id"`
	Name        string              `json:"name"                  yaml:"name"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	TypeID      string              `json:"typeId"                yaml:"typeId"`
	Config      CatalogSourceConfig `json:"config"                yaml:"config"`
	Global      bool                `json:"global"                yaml:"global"`
	ItemsFound  int                 `json:"itemsFound,omitempty"  yaml:"itemsFound,omitempty"`
	CreatedAt   *time.Time          `json:"createdAt,omitempty"   yaml:"createdAt,omitempty"`
}

// ProjectID returns the project the source imports from.
func (s *CatalogSource) ProjectID() string {
	return s.Config.SourceProjectID
}

// CatalogSourceCreateRequest is the input for creating a catalog source.
type CatalogSourceCreateRequest struct {
	Name      string `json:"name"       validate:"required"`
	TypeID    string `json:"type_id"    validate:"required"`
	ProjectID string `json:"project_id" validate:"required"`
}

// CatalogType describes a kind of catalog source.
type CatalogType struct {
	ID           string          `json:"id"                     yaml:"id"`
	Name         string          `json:"name"                   yaml:"name"`
	BaseURI      string          `json:"baseUri,omitempty"      yaml:"baseUri,omitempty"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty" yaml:"-"`
	IconID       string          `json:"iconId,omitempty"       yaml:"iconId,omitempty"`
}

// EntitlementDefinition identifies the entitled content.
type EntitlementDefinition struct {
	Type string `json:"type"           yaml:"type"`
	ID   string `json:"id"             yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Entitlement binds catalog content to a project.
type Entitlement struct {
	ID         string                `json:"id,omitempty" yaml:"id,omitempty"`
	ProjectID  string                `json:"projectId"    yaml:"projectId"`
	Definition EntitlementDefinition `json:"definition"   yaml:"definition"`
}

// Deployment statuses with a terminal meaning.
const (
	DeploymentCreateSuccessful = "CREATE_SUCCESSFUL"
	DeploymentCreateFailed     = "CREATE_FAILED"
)

// Deployment is an instantiated set of resources.
type Deployment struct {
	ID          string     `json:"id"                    yaml:"id"`
	Name        string     `json:"name"                  yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	OrgID       string     `json:"orgId,omitempty"       yaml:"orgId,omitempty"`
	BlueprintID string     `json:"blueprintId,omitempty" yaml:"blueprintId,omitempty"`
	ProjectID   string     `json:"projectId,omitempty"   yaml:"projectId,omitempty"`
	OwnedBy     string     `json:"ownedBy,omitempty"     yaml:"ownedBy,omitempty"`
	Status      string     `json:"status"                yaml:"status"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"   yaml:"createdAt,omitempty"`
}

// Successful reports whether the deployment was created.
func (d *Deployment) Successful() bool {
	return d.Status == DeploymentCreateSuccessful
}

// Failed reports whether creating the deployment failed.
func (d *Deployment) Failed() bool {
	return d.Status == DeploymentCreateFailed
}

// Completed reports whether the deployment reached a terminal status.
func (d *Deployment) Completed() bool {
	return d.Successful() || d.Failed()
}

// Action names looked up on deployments and resources.
const (
	ActionPowerOn          = "PowerOn"
	ActionPowerOff         = "PowerOff"
	ActionDeleteDeployment = "Delete"
	ActionDestroyResource  = "Destroy"
)

// Action is a day-2 operation available on a deployment or resource.
type Action struct {
	ID          string `json:"id"                    yaml:"id"`
	Name        string `json:"name"                  yaml:"name"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Valid       bool   `json:"valid,omitempty"       yaml:"valid,omitempty"`
}

// FindAction returns the action named name, or nil.
func FindAction(actions []Action, name string) *Action {
	for i := range actions {
		if actions[i].Name == name {
			return &actions[i]
		}
	}

	return nil
}

// Request phases with a terminal meaning.
const (
	RequestSuccessful = "SUCCESSFUL"
	RequestFailed     = "FAILED"
)

// RequestCompletion describes how a request finished.
type RequestCompletion struct {
	RequestCompletionState string `json:"requestCompletionState,omitempty" yaml:"requestCompletionState,omitempty"`
	CompletionDetails      string `json:"completionDetails,omitempty"      yaml:"completionDetails,omitempty"`
}

// Request tracks a submitted catalog request or action. Catalog service
// requests report Phase, deployment requests report Status.
type Request struct {
	ID                string             `json:"id"                          yaml:"id"`
	Name              string             `json:"name,omitempty"              yaml:"name,omitempty"`
	DeploymentID      string             `json:"deploymentId,omitempty"      yaml:"deploymentId,omitempty"`
	Phase             string             `json:"phase,omitempty"             yaml:"phase,omitempty"`
	Status            string             `json:"status,omitempty"            yaml:"status,omitempty"`
	Details           string             `json:"details,omitempty"           yaml:"details,omitempty"`
	RequestedBy       string             `json:"requestedBy,omitempty"       yaml:"requestedBy,omitempty"`
	RequestCompletion *RequestCompletion `json:"requestCompletion,omitempty" yaml:"requestCompletion,omitempty"`
}

// State returns Phase, falling back to Status.
func (r *Request) State() string {
	if r.Phase != "" {
		return r.Phase
	}

	return r.Status
}

// Successful reports whether the request succeeded.
func (r *Request) Successful() bool {
	return r.State() == RequestSuccessful
}

// Failed reports whether the request failed.
func (r *Request) Failed() bool {
	return r.State() == RequestFailed
}

// InProgress reports whether the request has not reached a terminal state.
func (r *Request) InProgress() bool {
	return !r.Successful() && !r.Failed()
}

// CompletionState returns the completion state, if reported.
func (r *Request) CompletionState() string {
	if r.RequestCompletion == nil {
		return ""
	}

	return r.RequestCompletion.RequestCompletionState
}

// CompletionDetails returns the completion details, if reported.
func (r *Request) CompletionDetails() string {
	if r.RequestCompletion == nil {
		return ""
	}

	return r.RequestCompletion.CompletionDetails
}

// ResourceTypeVirtualMachine is the resource type of virtual machines.
const ResourceTypeVirtualMachine = "Infrastructure.Virtual"

// Resource data keys.
const (
	ResourceDataNetworkList    = "NETWORK_LIST"
	ResourceDataNetworkAddress = "NETWORK_ADDRESS"
)

// DataValue is a typed value inside resource data.
type DataValue struct {
	Type   string          `json:"type,omitempty"   yaml:"type,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"  yaml:"-"`
	Items  []DataItem      `json:"items,omitempty"  yaml:"items,omitempty"`
	Values *DataEntries    `json:"values,omitempty" yaml:"values,omitempty"`
}

// String returns the scalar value as text.
func (v DataValue) String() string {
	if len(v.Value) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(v.Value, &s); err == nil {
		return s
	}

	return string(v.Value)
}

// DataItem is a complex value inside a multiple value.
type DataItem struct {
	Type   string      `json:"type,omitempty" yaml:"type,omitempty"`
	Values DataEntries `json:"values"         yaml:"values"`
}

// DataEntries is a list of key/value pairs.
type DataEntries struct {
	Entries []DataEntry `json:"entries" yaml:"entries"`
}

// DataEntry is one key/value pair.
type DataEntry struct {
	Key   string     `json:"key"   yaml:"key"`
	Value *DataValue `json:"value" yaml:"value"`
}

// Find returns the entry with key, or nil.
func (d DataEntries) Find(key string) *DataEntry {
	for i := range d.Entries {
		if d.Entries[i].Key == key {
			return &d.Entries[i]
		}
	}

	return nil
}

// Resource is a provisioned item such as a virtual machine.
type Resource struct {
	ID              string          `json:"id"                        yaml:"id"`
	Name            string          `json:"name"                      yaml:"name"`
	Description     string          `json:"description,omitempty"     yaml:"description,omitempty"`
	Status          string          `json:"status,omitempty"          yaml:"status,omitempty"`
	Type            string          `json:"type,omitempty"            yaml:"type,omitempty"`
	ResourceTypeRef *Ref            `json:"resourceTypeRef,omitempty" yaml:"resourceTypeRef,omitempty"`
	Organization    *Organization   `json:"organization,omitempty"    yaml:"organization,omitempty"`
	CatalogItem     *Ref            `json:"catalogItem,omitempty"     yaml:"catalogItem,omitempty"`
	RequestID       string          `json:"requestId,omitempty"       yaml:"requestId,omitempty"`
	ResourceData    *DataEntries    `json:"resourceData,omitempty"    yaml:"resourceData,omitempty"`
	Operations      []Action        `json:"operations,omitempty"      yaml:"operations,omitempty"`
	Properties      json.RawMessage `json:"properties,omitempty"      yaml:"-"`
}

// VM reports whether the resource is a virtual machine.
func (r *Resource) VM() bool {
	return r.ResourceTypeRef != nil && r.ResourceTypeRef.ID == ResourceTypeVirtualMachine
}

// TypeName returns the resource type of either API generation.
func (r *Resource) TypeName() string {
	if r.ResourceTypeRef != nil {
		return r.ResourceTypeRef.ID
	}

	return r.Type
}

// TenantID returns the owning tenant, if any.
func (r *Resource) TenantID() string {
	if r.Organization == nil {
		return ""
	}

	return r.Organization.TenantRef
}

// SubtenantID returns the owning business group, if any.
func (r *Resource) SubtenantID() string {
	if r.Organization == nil {
		return ""
	}

	return r.Organization.SubtenantRef
}

// CatalogID returns the catalog item the resource was provisioned from.
func (r *Resource) CatalogID() string {
	if r.CatalogItem == nil {
		return ""
	}

	return r.CatalogItem.ID
}

// NetworkInterfaces returns one map of settings per NIC. It is nil for
// resources that are not virtual machines or carry no network list.
func (r *Resource) NetworkInterfaces() []map[string]string {
	if !r.VM() || r.ResourceData == nil {
		return nil
	}

	networkList := r.ResourceData.Find(ResourceDataNetworkList)
	if networkList == nil || networkList.Value == nil {
		return nil
	}

	nics := make([]map[string]string, 0, len(networkList.Value.Items))

	for _, item := range networkList.Value.Items {
		nic := make(map[string]string, len(item.Values.Entries))

		for _, entry := range item.Values.Entries {
			if entry.Value == nil {
				nic[entry.Key] = ""

				continue
			}

			nic[entry.Key] = entry.Value.String()
		}

		nics = append(nics, nic)
	}

	return nics
}

// IPAddresses returns the address of every NIC that reports one.
func (r *Resource) IPAddresses() []string {
	nics := r.NetworkInterfaces()
	if nics == nil {
		return nil
	}

	addrs := make([]string, 0, len(nics))

	for _, nic := range nics {
		if addr, ok := nic[ResourceDataNetworkAddress]; ok {
			addrs = append(addrs, addr)
		}
	}

	return addrs
}

// Request parameter types.
const (
	ParameterTypeString  = "string"
	ParameterTypeInteger = "integer"
)

// RequestParameter is a flat typed input of a catalog or deployment request.
type RequestParameter struct {
	Key   string
	Type  string
	Value any
}

// FormattedValue converts Value to the representation implied by Type.
// Integer parameters become int, everything else a string.
func (p RequestParameter) FormattedValue() any {
	if p.Type == ParameterTypeInteger {
		return toInt(p.Value)
	}

	return toString(p.Value)
}

// Entry renders the parameter as a request data entry.
func (p RequestParameter) Entry() map[string]any {
	return map[string]any{
		"key": p.Key,
		"value": map[string]any{
			"type":  p.Type,
			"value": p.FormattedValue(),
		},
	}
}

func toInt(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)

		return n
	default:
		n, _ := strconv.Atoi(toString(v))

		return n
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}

		return string(b)
	}
}

// DeploymentRequest is the input for requesting a deployment from a catalog
// item. Parameters are merged into the request inputs and win over the
// built-in count, image and flavor.
type DeploymentRequest struct {
	Name          string             `json:"name"           validate:"required"`
	ProjectID     string             `json:"project_id"     validate:"required"`
	Version       string             `json:"version"        validate:"required"`
	ImageMapping  string             `json:"image_mapping"  validate:"required"`
	FlavorMapping string             `json:"flavor_mapping" validate:"required"`
	Count         int                `json:"count"          validate:"gte=0"`
	Reason        string             `json:"reason"`
	Parameters    []RequestParameter `json:"-"              validate:"-"`
}

// CatalogRequest is the input for a catalog service request. CPUs and
// Memory are pointers so an explicit zero is distinguishable from unset.
type CatalogRequest struct {
	CatalogID    string             `json:"catalog_id"    validate:"required"`
	CPUs         *int               `json:"cpus"          validate:"required"`
	Memory       *int               `json:"memory"        validate:"required"`
	RequestedFor string             `json:"requested_for" validate:"required"`
	SubtenantID  string             `json:"subtenant_id"  validate:"required"`
	LeaseDays    int                `json:"lease_days"`
	Notes        string             `json:"notes"`
	Parameters   []RequestParameter `json:"-"             validate:"-"`
}

// SetParameter adds or replaces a parameter by key.
func (r *CatalogRequest) SetParameter(key, typ string, value any) {
	r.Parameters = setParameter(r.Parameters, RequestParameter{Key: key, Type: typ, Value: value})
}

// DeleteParameter removes the parameter with key.
func (r *CatalogRequest) DeleteParameter(key string) {
	r.Parameters = deleteParameter(r.Parameters, key)
}

// SetParameter adds or replaces a parameter by key.
func (r *DeploymentRequest) SetParameter(key, typ string, value any) {
	r.Parameters = setParameter(r.Parameters, RequestParameter{Key: key, Type: typ, Value: value})
}

// DeleteParameter removes the parameter with key.
func (r *DeploymentRequest) DeleteParameter(key string) {
	r.Parameters = deleteParameter(r.Parameters, key)
}

func setParameter(params []RequestParameter, param RequestParameter) []RequestParameter {
	for i := range params {
		if params[i].Key == param.Key {
			params[i] = param

			return params
		}
	}

	return append(params, param)
}

func deleteParameter(params []RequestParameter, key string) []RequestParameter {
	out := params[:0]

	for _, p := range params {
		if p.Key != key {
			out = append(out, p)
		}
	}

	return out
}
