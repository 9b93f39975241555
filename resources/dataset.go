// Package resources holds a couple of illustrative, thin resource
// wrappers built on pkg/cognite, showing the pattern a generated or
// hand-written resource client follows: a request builder call wrapped
// by List/FilterAll/Patch, nothing more. The full ~30-resource catalogue
// (Asset, Event, File, TimeSeries, Sequence, Raw row, Relationship,
// Label, ExtPipe, Group, Session, data-modelling types, and so on) is out
// of scope for the core — see spec.md §1.
package resources

import (
	"context"

	"github.com/cognitedata-community/cognite-sdk-go/pkg/cognite"
)

// DataSet is a CDF data set: a container used to track provenance and
// access control over other resources.
type DataSet struct {
	ID              int64            `json:"id"`
	ExternalID      string           `json:"externalId,omitempty"`
	Name            string           `json:"name,omitempty"`
	Description     string           `json:"description,omitempty"`
	Metadata        cognite.Metadata `json:"metadata,omitempty"`
	WriteProtected  bool             `json:"writeProtected"`
	CreatedTime     int64            `json:"createdTime"`
	LastUpdatedTime int64            `json:"lastUpdatedTime"`
}

// DataSetCreate is the request body for creating one data set.
type DataSetCreate struct {
	ExternalID     string           `json:"externalId,omitempty"`
	Name           string           `json:"name,omitempty"`
	Description    string           `json:"description,omitempty"`
	Metadata       cognite.Metadata `json:"metadata,omitempty"`
	WriteProtected bool             `json:"writeProtected,omitempty"`
}

// DataSetUpdate is the set of fields a Patch[DataSetUpdate] may carry.
type DataSetUpdate struct {
	Name           *cognite.UpdateSetNull[string] `json:"name,omitempty"`
	Description    *cognite.UpdateSetNull[string] `json:"description,omitempty"`
	Metadata       *cognite.UpdateMap[string]     `json:"metadata,omitempty"`
	WriteProtected *cognite.UpdateSet[bool]       `json:"writeProtected,omitempty"`
}

// DataSetFilter selects data sets by name/external-id prefix and,
// internally, carries the cursor/partition state the pagination
// orchestrator mutates between pages. It implements
// cognite.CursorFilter[DataSetFilter].
type DataSetFilter struct {
	Name               string
	ExternalIDPrefix   string
	WriteProtected     *bool
	cursor             string
	partition          string
}

// WithCursor returns a copy of f with its cursor set (or cleared, when
// cursor is empty), implementing cognite.CursorFilter.
func (f DataSetFilter) WithCursor(cursor string) DataSetFilter {
	f.cursor = cursor

	return f
}

// WithPartition returns a copy of f scoped to one partition of N, with no
// cursor set, implementing cognite.CursorFilter.
func (f DataSetFilter) WithPartition(p cognite.Partition) DataSetFilter {
	f.partition = p.String()
	f.cursor = ""

	return f
}

type dataSetFilterRequest struct {
	Filter struct {
		Name             string `json:"name,omitempty"`
		ExternalIDPrefix string `json:"externalIdPrefix,omitempty"`
		WriteProtected   *bool  `json:"writeProtected,omitempty"`
	} `json:"filter"`
	Cursor    string `json:"cursor,omitempty"`
	Partition string `json:"partition,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

func (f DataSetFilter) requestBody(limit int) dataSetFilterRequest {
	var body dataSetFilterRequest

	body.Filter.Name = f.Name
	body.Filter.ExternalIDPrefix = f.ExternalIDPrefix
	body.Filter.WriteProtected = f.WriteProtected
	body.Cursor = f.cursor
	body.Partition = f.partition
	body.Limit = limit

	return body
}

// DataSets is a thin wrapper over cognite.Client exposing the handful of
// operations a data-set CRUD collaborator needs, built entirely out of
// core primitives (request builder, pagination, identity, patch).
type DataSets struct {
	client *cognite.Client
	limit  int
}

// NewDataSets returns a DataSets collaborator using the default page
// size. Use WithPageSize to override it.
func NewDataSets(client *cognite.Client) *DataSets {
	return &DataSets{client: client, limit: 100}
}

// WithPageSize returns a copy of d requesting pageSize items per page.
func (d *DataSets) WithPageSize(pageSize int) *DataSets {
	cp := *d
	cp.limit = pageSize

	return &cp
}

func (d *DataSets) fetchPage(ctx context.Context, filter DataSetFilter) (cognite.Page[DataSet], error) {
	resp, err := cognite.DecodeJSON[cognite.CursorResponse[DataSet]](
		d.client.Post("/datasets/list").JSON(filter.requestBody(d.limit)).AcceptJSON().Send(ctx),
	)
	if err != nil {
		return cognite.Page[DataSet]{}, err
	}

	return resp.AsPage(), nil
}

// List returns a single page of data sets matching filter.
func (d *DataSets) List(ctx context.Context, filter DataSetFilter) (cognite.Page[DataSet], error) {
	return d.fetchPage(ctx, filter)
}

// FilterAll drives filter to completion, returning every matching data
// set across all pages (§4.4 filter-style pagination).
func (d *DataSets) FilterAll(ctx context.Context, filter DataSetFilter) ([]DataSet, error) {
	return cognite.FilterAll(ctx, filter, d.fetchPage)
}

// FilterAllPartitioned drives filter to completion across n concurrent
// partitions (§4.4 partitioned pagination).
func (d *DataSets) FilterAllPartitioned(ctx context.Context, filter DataSetFilter, n int) ([]DataSet, error) {
	return cognite.FilterAllPartitioned(ctx, filter, n, d.fetchPage)
}

// ByIDs retrieves data sets by Identity (internal id or external id).
func (d *DataSets) ByIDs(ctx context.Context, ids ...cognite.Identity) ([]DataSet, error) {
	body := struct {
		Items cognite.IdentityList `json:"items"`
	}{Items: ids}

	resp, err := cognite.DecodeJSON[struct {
		Items []DataSet `json:"items"`
	}](d.client.Post("/datasets/byids").JSON(body).AcceptJSON().Send(ctx))
	if err != nil {
		return nil, err
	}

	return resp.Items, nil
}

// Create creates one or more data sets.
func (d *DataSets) Create(ctx context.Context, items ...DataSetCreate) ([]DataSet, error) {
	body := struct {
		Items []DataSetCreate `json:"items"`
	}{Items: items}

	resp, err := cognite.DecodeJSON[struct {
		Items []DataSet `json:"items"`
	}](d.client.Post("/datasets").JSON(body).AcceptJSON().Send(ctx))
	if err != nil {
		return nil, err
	}

	return resp.Items, nil
}

// Update applies one or more patches, each keyed by Identity.
func (d *DataSets) Update(ctx context.Context, patches ...cognite.Patch[DataSetUpdate]) ([]DataSet, error) {
	body := struct {
		Items []cognite.Patch[DataSetUpdate] `json:"items"`
	}{Items: patches}

	resp, err := cognite.DecodeJSON[struct {
		Items []DataSet `json:"items"`
	}](d.client.Post("/datasets/update").JSON(body).AcceptJSON().Send(ctx))
	if err != nil {
		return nil, err
	}

	return resp.Items, nil
}
