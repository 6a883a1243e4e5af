package httpclient

import (
	"context"
	"net/http"
	"net/url"

	"feeder-workbench/application/ports"
)

// TopologyStoreClient implements ports.TopologyStore and ports.ProfileCatalog
// against the topology store's REST API
type TopologyStoreClient struct {
	client *Client
}

// NewTopologyStoreClient creates a topology store client
func NewTopologyStoreClient(client *Client) *TopologyStoreClient {
	return &TopologyStoreClient{client: client}
}

var (
	_ ports.TopologyStore  = (*TopologyStoreClient)(nil)
	_ ports.ProfileCatalog = (*TopologyStoreClient)(nil)
)

// Create persists a new topology
func (s *TopologyStoreClient) Create(ctx context.Context, doc ports.TopologyDocument) (*ports.TopologyDocument, error) {
	var out ports.TopologyDocument
	err := s.client.do(ctx, call{
		operation: "create_topology",
		method:    http.MethodPost,
		path:      "/topologies",
		body:      writable(doc),
		out:       &out,
		auth:      true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get retrieves a topology by id
func (s *TopologyStoreClient) Get(ctx context.Context, id string) (*ports.TopologyDocument, error) {
	var out ports.TopologyDocument
	err := s.client.do(ctx, call{
		operation: "get_topology",
		method:    http.MethodGet,
		path:      "/topologies/" + url.PathEscape(id),
		out:       &out,
		auth:      true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a topology
func (s *TopologyStoreClient) Update(ctx context.Context, id string, doc ports.TopologyDocument) (*ports.TopologyDocument, error) {
	var out ports.TopologyDocument
	err := s.client.do(ctx, call{
		operation: "update_topology",
		method:    http.MethodPut,
		path:      "/topologies/" + url.PathEscape(id),
		body:      writable(doc),
		out:       &out,
		auth:      true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List retrieves every stored topology
func (s *TopologyStoreClient) List(ctx context.Context) ([]ports.TopologyDocument, error) {
	var out []ports.TopologyDocument
	err := s.client.do(ctx, call{
		operation: "list_topologies",
		method:    http.MethodGet,
		path:      "/topologies",
		out:       &out,
		auth:      true,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a topology
func (s *TopologyStoreClient) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, call{
		operation: "delete_topology",
		method:    http.MethodDelete,
		path:      "/topologies/" + url.PathEscape(id),
		auth:      true,
	})
}

// ListProfiles lists the feeder profiles
func (s *TopologyStoreClient) ListProfiles(ctx context.Context) ([]ports.Profile, error) {
	var out []ports.Profile
	err := s.client.do(ctx, call{
		operation: "list_profiles",
		method:    http.MethodGet,
		path:      "/profiles",
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetProfile describes one feeder profile
func (s *TopologyStoreClient) GetProfile(ctx context.Context, profileType string) (*ports.Profile, error) {
	var out ports.Profile
	err := s.client.do(ctx, call{
		operation: "get_profile",
		method:    http.MethodGet,
		path:      "/profiles/" + url.PathEscape(profileType),
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// topologyRequest is the body of create and update; the store owns ids and timestamps
type topologyRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	ProfileType string               `json:"profile_type"`
	Nodes       []ports.NodeDocument `json:"nodes"`
	Lines       []ports.LineDocument `json:"lines"`
}

func writable(doc ports.TopologyDocument) topologyRequest {
	req := topologyRequest{
		Name:        doc.Name,
		Description: doc.Description,
		ProfileType: doc.ProfileType,
		Nodes:       doc.Nodes,
		Lines:       doc.Lines,
	}
	if req.Nodes == nil {
		req.Nodes = []ports.NodeDocument{}
	}
	if req.Lines == nil {
		req.Lines = []ports.LineDocument{}
	}
	return req
}
