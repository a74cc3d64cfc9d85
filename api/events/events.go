// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/stakedb"
	"github.com/vechain/stakeledger/thor"
)

type Events struct {
	db    *stakedb.StakeDB
	limit uint64
}

func New(db *stakedb.StakeDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

// Filter query events with option
func (e *Events) filter(ctx context.Context, ef *EventFilter) ([]*FilteredEvent, error) {
	events, err := e.db.FilterEvents(ctx, convertFilter(ef))
	if err != nil {
		return nil, err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = convertEvent(ev)
	}
	return fes, nil
}

func (e *Events) validate(filter *EventFilter) error {
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", math.MaxInt64))
	}
	if filter.Range != nil && filter.Range.From != nil && filter.Range.To != nil && *filter.Range.From > *filter.Range.To {
		return utils.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
	}
	if filter.Order != "" && filter.Order != stakedb.ASC && filter.Order != stakedb.DESC {
		return utils.BadRequest(fmt.Errorf("order: unsupported value %q", filter.Order))
	}
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Options == nil {
		filter.Options = &Options{Limit: e.limit}
	}
	return nil
}

func (e *Events) respond(w http.ResponseWriter, req *http.Request, filter *EventFilter) error {
	if err := e.validate(filter); err != nil {
		return err
	}
	fes, err := e.filter(req.Context(), filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return e.respond(w, req, &filter)
}

func parseUint(query url.Values, key string) (*uint64, error) {
	s := query.Get(key)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, key))
	}
	return &n, nil
}

// handleQuery serves the single criteria form of the filter built from query parameters.
func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	filter := EventFilter{Order: stakedb.Order(query.Get("order"))}

	set := &TopicSet{}
	if s := query.Get("address"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "address"))
		}
		set.Address = &addr
	}
	for i, topic := range []**thor.Bytes32{&set.Topic0, &set.Topic1, &set.Topic2, &set.Topic3, &set.Topic4} {
		key := "topic" + strconv.Itoa(i)
		if s := query.Get(key); s != "" {
			b, err := thor.ParseBytes32(s)
			if err != nil {
				return utils.BadRequest(errors.WithMessage(err, key))
			}
			*topic = &b
		}
	}
	filter.CriteriaSet = []*TopicSet{set}

	from, err := parseUint(query, "from")
	if err != nil {
		return err
	}
	to, err := parseUint(query, "to")
	if err != nil {
		return err
	}
	filter.Range = &Range{From: from, To: to}

	offset, err := parseUint(query, "offset")
	if err != nil {
		return err
	}
	limit, err := parseUint(query, "limit")
	if err != nil {
		return err
	}
	if offset != nil || limit != nil {
		filter.Options = &Options{Limit: e.limit}
		if offset != nil {
			filter.Options.Offset = *offset
		}
		if limit != nil {
			filter.Options.Limit = *limit
		}
	}
	return e.respond(w, req, &filter)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
}
