package cf

import (
	"context"
	"time"
)

// Organization represents a CF organization.
type Organization struct {
	Resource

	Name          string                    `json:"name"      yaml:"name"`
	Suspended     bool                      `json:"suspended" yaml:"suspended"`
	Metadata      Metadata                  `json:"metadata"  yaml:"metadata"`
	Relationships OrganizationRelationships `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

// OrganizationRelationships holds an organization's related resources.
type OrganizationRelationships struct {
	Quota Relationship `json:"quota,omitempty" yaml:"quota,omitempty"`
}

// Space represents a CF space inside an organization.
type Space struct {
	Resource

	Name          string             `json:"name"          yaml:"name"`
	Metadata      Metadata           `json:"metadata"      yaml:"metadata"`
	Relationships SpaceRelationships `json:"relationships" yaml:"relationships"`
}

// SpaceRelationships holds a space's related resources.
type SpaceRelationships struct {
	Organization Relationship `json:"organization" yaml:"organization"`
}

// Domain represents a route domain, shared or scoped to an organization.
type Domain struct {
	Resource

	Name          string              `json:"name"          yaml:"name"`
	Internal      bool                `json:"internal"      yaml:"internal"`
	Metadata      Metadata            `json:"metadata"      yaml:"metadata"`
	Relationships DomainRelationships `json:"relationships" yaml:"relationships"`
}

// DomainRelationships holds a domain's related resources.
type DomainRelationships struct {
	Organization        Relationship       `json:"organization"                   yaml:"organization"`
	SharedOrganizations ToManyRelationship `json:"shared_organizations,omitempty" yaml:"shared_organizations,omitempty"`
}

// Application represents a CF application.
type Application struct {
	Resource

	Name          string                   `json:"name"          yaml:"name"`
	State         string                   `json:"state"         yaml:"state"`
	Lifecycle     Lifecycle                `json:"lifecycle"     yaml:"lifecycle"`
	Metadata      Metadata                 `json:"metadata"      yaml:"metadata"`
	Relationships ApplicationRelationships `json:"relationships" yaml:"relationships"`
}

// ApplicationRelationships holds an application's related resources.
type ApplicationRelationships struct {
	Space Relationship `json:"space" yaml:"space"`
}

// Lifecycle describes how an application is staged.
type Lifecycle struct {
	Type string        `json:"type" yaml:"type"`
	Data LifecycleData `json:"data" yaml:"data"`
}

// LifecycleData carries buildpack lifecycle details.
type LifecycleData struct {
	Buildpacks []string `json:"buildpacks,omitempty" yaml:"buildpacks,omitempty"`
	Stack      string   `json:"stack,omitempty"      yaml:"stack,omitempty"`
}

// AppEnvironment is the full environment of an application.
type AppEnvironment struct {
	EnvironmentVariables map[string]interface{}            `json:"environment_variables" yaml:"environment_variables"`
	StagingEnvJSON       map[string]interface{}            `json:"staging_env_json"      yaml:"staging_env_json"`
	RunningEnvJSON       map[string]interface{}            `json:"running_env_json"      yaml:"running_env_json"`
	SystemEnvJSON        map[string]interface{}            `json:"system_env_json"       yaml:"system_env_json"`
	ApplicationEnvJSON   map[string]map[string]interface{} `json:"application_env_json"  yaml:"application_env_json"`
}

// Route represents an HTTP route mapping a host/path on a domain to a space.
type Route struct {
	Resource

	Host          string             `json:"host"          yaml:"host"`
	Path          string             `json:"path"          yaml:"path"`
	URL           string             `json:"url"           yaml:"url"`
	Protocol      string             `json:"protocol"      yaml:"protocol"`
	Destinations  []RouteDestination `json:"destinations"  yaml:"destinations"`
	Metadata      Metadata           `json:"metadata"      yaml:"metadata"`
	Relationships RouteRelationships `json:"relationships" yaml:"relationships"`
}

// RouteRelationships holds a route's related resources.
type RouteRelationships struct {
	Space  Relationship `json:"space"  yaml:"space"`
	Domain Relationship `json:"domain" yaml:"domain"`
}

// RouteDestination maps a route to an application process.
type RouteDestination struct {
	GUID     string              `json:"guid,omitempty"     yaml:"guid,omitempty"`
	App      RouteDestinationApp `json:"app"                yaml:"app"`
	Port     *int                `json:"port,omitempty"     yaml:"port,omitempty"`
	Protocol *string             `json:"protocol,omitempty" yaml:"protocol,omitempty"`
}

// RouteDestinationApp identifies the application side of a destination.
type RouteDestinationApp struct {
	GUID    string                   `json:"guid"              yaml:"guid"`
	Process *RouteDestinationProcess `json:"process,omitempty" yaml:"process,omitempty"`
}

// RouteDestinationProcess selects the process type receiving the traffic.
type RouteDestinationProcess struct {
	Type string `json:"type" yaml:"type"`
}

// ServiceInstance represents a managed or user-provided service instance.
type ServiceInstance struct {
	Resource

	Name          string                       `json:"name"                     yaml:"name"`
	Type          string                       `json:"type"                     yaml:"type"`
	Tags          []string                     `json:"tags,omitempty"           yaml:"tags,omitempty"`
	LastOperation LastOperation                `json:"last_operation"           yaml:"last_operation"`
	Metadata      Metadata                     `json:"metadata"                 yaml:"metadata"`
	Relationships ServiceInstanceRelationships `json:"relationships,omitempty"  yaml:"relationships,omitempty"`
}

// ServiceInstanceRelationships holds a service instance's related resources.
type ServiceInstanceRelationships struct {
	Space       Relationship `json:"space"                  yaml:"space"`
	ServicePlan Relationship `json:"service_plan,omitempty" yaml:"service_plan,omitempty"`
}

// LastOperation describes the latest asynchronous broker operation.
type LastOperation struct {
	Type        string    `json:"type"        yaml:"type"`
	State       string    `json:"state"       yaml:"state"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at"  yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  yaml:"updated_at"`
}

// ServiceKey represents a key-type service credential binding.
type ServiceKey struct {
	Resource

	Name          string                  `json:"name"           yaml:"name"`
	Type          string                  `json:"type"           yaml:"type"`
	LastOperation LastOperation           `json:"last_operation" yaml:"last_operation"`
	Relationships ServiceKeyRelationships `json:"relationships"  yaml:"relationships"`
}

// ServiceKeyRelationships holds a service key's related resources.
type ServiceKeyRelationships struct {
	ServiceInstance Relationship `json:"service_instance" yaml:"service_instance"`
}

// ServiceKeyDetails carries the credentials of a service key.
type ServiceKeyDetails struct {
	Credentials map[string]interface{} `json:"credentials" yaml:"credentials"`
}

// Task represents a one-off task running against an application's droplet.
type Task struct {
	Resource

	Name          string            `json:"name"          yaml:"name"`
	Command       string            `json:"command"       yaml:"command"`
	State         string            `json:"state"         yaml:"state"`
	MemoryInMB    int               `json:"memory_in_mb"  yaml:"memory_in_mb"`
	DiskInMB      int               `json:"disk_in_mb"    yaml:"disk_in_mb"`
	Result        TaskResult        `json:"result"        yaml:"result"`
	Relationships TaskRelationships `json:"relationships" yaml:"relationships"`
}

// TaskResult reports why a finished task failed, if it did.
type TaskResult struct {
	FailureReason *string `json:"failure_reason" yaml:"failure_reason"`
}

// TaskRelationships holds a task's related resources.
type TaskRelationships struct {
	App Relationship `json:"app" yaml:"app"`
}

// Task states.
const (
	TaskStatePending   = "PENDING"
	TaskStateRunning   = "RUNNING"
	TaskStateSucceeded = "SUCCEEDED"
	TaskStateFailed    = "FAILED"
)

// Envelope is one decoded log envelope from the log endpoint.
type Envelope struct {
	Timestamp  time.Time         `json:"timestamp"   yaml:"timestamp"`
	SourceID   string            `json:"source_id"   yaml:"source_id"`
	InstanceID string            `json:"instance_id" yaml:"instance_id"`
	SourceType string            `json:"source_type" yaml:"source_type"`
	Tags       map[string]string `json:"tags"        yaml:"tags"`
	Message    string            `json:"message"     yaml:"message"`
	// MessageType is OUT or ERR.
	MessageType string `json:"message_type" yaml:"message_type"`
}

// Request types.

// ApplicationCreateRequest creates an application in a space.
type ApplicationCreateRequest struct {
	Name                 string                   `json:"name"`
	Relationships        ApplicationRelationships `json:"relationships"`
	EnvironmentVariables map[string]interface{}   `json:"environment_variables,omitempty"`
	Lifecycle            *Lifecycle               `json:"lifecycle,omitempty"`
	Metadata             *Metadata                `json:"metadata,omitempty"`
}

// ApplicationUpdateRequest updates an application's mutable fields.
type ApplicationUpdateRequest struct {
	Name      *string    `json:"name,omitempty"`
	Lifecycle *Lifecycle `json:"lifecycle,omitempty"`
	Metadata  *Metadata  `json:"metadata,omitempty"`
}

// RouteCreateRequest creates a route on a domain within a space.
type RouteCreateRequest struct {
	Host          string             `json:"host,omitempty"`
	Path          string             `json:"path,omitempty"`
	Relationships RouteRelationships `json:"relationships"`
	Metadata      *Metadata          `json:"metadata,omitempty"`
}

// ServiceInstanceCreateRequest creates a service instance in a space.
type ServiceInstanceCreateRequest struct {
	Type          string                       `json:"type"`
	Name          string                       `json:"name"`
	Tags          []string                     `json:"tags,omitempty"`
	Parameters    map[string]interface{}       `json:"parameters,omitempty"`
	Credentials   map[string]interface{}       `json:"credentials,omitempty"`
	Relationships ServiceInstanceRelationships `json:"relationships"`
}

// ServiceKeyCreateRequest creates a key-type credential binding.
type ServiceKeyCreateRequest struct {
	Type          string                  `json:"type"`
	Name          string                  `json:"name"`
	Parameters    map[string]interface{}  `json:"parameters,omitempty"`
	Relationships ServiceKeyRelationships `json:"relationships"`
}

// TaskCreateRequest runs a one-off command against an application.
type TaskCreateRequest struct {
	Command    string  `json:"command"`
	Name       *string `json:"name,omitempty"`
	MemoryInMB *int    `json:"memory_in_mb,omitempty"`
	DiskInMB   *int    `json:"disk_in_mb,omitempty"`
}

// Facade interfaces. One typed client per resource kind, all sharing the
// resilient transport. See internal/client for the construction order.

// OrganizationsClient accesses CF organizations.
type OrganizationsClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Organization], error)
	Get(ctx context.Context, guid string) (*Organization, error)
	FindByName(ctx context.Context, name string) (*Organization, error)
}

// SpacesClient accesses CF spaces.
type SpacesClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Space], error)
	Get(ctx context.Context, guid string) (*Space, error)
	FindByName(ctx context.Context, orgGUID, name string) (*Space, error)
	FindByNameAndOrganization(ctx context.Context, spaceName, orgName string) (*Space, error)
}

// DomainsClient accesses route domains.
type DomainsClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Domain], error)
	Get(ctx context.Context, guid string) (*Domain, error)
	FindByName(ctx context.Context, name string) (*Domain, error)
	ListForOrganization(ctx context.Context, orgGUID string, params *QueryParams) (*ListResponse[Domain], error)
}

// ApplicationsClient accesses CF applications.
type ApplicationsClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Application], error)
	Get(ctx context.Context, guid string) (*Application, error)
	FindByName(ctx context.Context, spaceGUID, name string) (*Application, error)
	Create(ctx context.Context, request *ApplicationCreateRequest) (*Application, error)
	Update(ctx context.Context, guid string, request *ApplicationUpdateRequest) (*Application, error)
	Delete(ctx context.Context, guid string) error
	Start(ctx context.Context, guid string) (*Application, error)
	Stop(ctx context.Context, guid string) (*Application, error)
	GetEnv(ctx context.Context, guid string) (*AppEnvironment, error)
}

// RouteParts is a route URI decomposed against the known domains.
type RouteParts struct {
	Host   string
	Path   string
	Domain *Domain
}

// RoutesClient accesses routes and their application mappings.
type RoutesClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Route], error)
	Get(ctx context.Context, guid string) (*Route, error)
	Create(ctx context.Context, request *RouteCreateRequest) (*Route, error)
	Delete(ctx context.Context, guid string) error
	Find(ctx context.Context, domainGUID, host, path string) (*Route, error)
	ParseRoute(ctx context.Context, route string) (*RouteParts, error)
	Map(ctx context.Context, routeGUID, appGUID string) error
	Unmap(ctx context.Context, routeGUID, destinationGUID string) error
}

// ServiceInstancesClient accesses service instances.
type ServiceInstancesClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[ServiceInstance], error)
	Get(ctx context.Context, guid string) (*ServiceInstance, error)
	FindByName(ctx context.Context, spaceGUID, name string) (*ServiceInstance, error)
	Create(ctx context.Context, request *ServiceInstanceCreateRequest) (*ServiceInstance, error)
	Delete(ctx context.Context, guid string) error
}

// ServiceKeysClient accesses key-type service credential bindings.
type ServiceKeysClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[ServiceKey], error)
	Get(ctx context.Context, guid string) (*ServiceKey, error)
	Create(ctx context.Context, request *ServiceKeyCreateRequest) (*ServiceKey, error)
	Delete(ctx context.Context, guid string) error
	GetDetails(ctx context.Context, guid string) (*ServiceKeyDetails, error)
}

// TasksClient accesses one-off tasks.
type TasksClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Task], error)
	Get(ctx context.Context, guid string) (*Task, error)
	Create(ctx context.Context, appGUID string, request *TaskCreateRequest) (*Task, error)
	Cancel(ctx context.Context, guid string) (*Task, error)
}

// LogsClient reads application logs from the log endpoint, which lives on a
// different host and speaks a different payload codec than the API.
type LogsClient interface {
	RecentLogs(ctx context.Context, appGUID string) ([]Envelope, error)
}
