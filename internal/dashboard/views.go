package dashboard

import (
	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/entitysync"
	"github.com/keyxmakerx/rolodex/internal/plugins/campaigns"
	"github.com/keyxmakerx/rolodex/internal/plugins/contacts"
	"github.com/keyxmakerx/rolodex/internal/widgets/tags"
)

// ContactView is a contact with its tag ids resolved to names.
type ContactView struct {
	contacts.Contact
	TagNames []string `json:"tagNames"`
}

// CampaignView is a campaign with its tag ids resolved to names.
type CampaignView struct {
	campaigns.Campaign
	TagNames []string `json:"tagNames"`
}

// ListView is a controller snapshot with entities rendered as V.
type ListView[V any] struct {
	Entities    []V                `json:"entities"`
	Loading     bool               `json:"loading"`
	Error       *apperror.AppError `json:"error"`
	SearchQuery string             `json:"searchQuery"`
	SelectedIDs []string           `json:"selectedIds"`
	Count       int                `json:"count"`
}

func newListView[T entitysync.Entity, V any](st entitysync.State[T], render func(T) V) ListView[V] {
	out := make([]V, len(st.Entities))
	for i, e := range st.Entities {
		out[i] = render(e)
	}
	return ListView[V]{
		Entities:    out,
		Loading:     st.Loading,
		Error:       st.Error,
		SearchQuery: st.SearchQuery,
		SelectedIDs: st.SelectedIDs,
		Count:       st.Count(),
	}
}

// TagLookup resolves every tag seen in a full load or a confirmed write.
// A tag search narrows the tags view but not this lookup.
func (d *Dashboard) TagLookup() tags.Lookup {
	return d.tagIndex.lookup()
}

// ContactsView renders the contacts state with tag names.
func (d *Dashboard) ContactsView() ListView[ContactView] {
	lookup := d.TagLookup()
	return newListView(d.Contacts.State(), func(c contacts.Contact) ContactView {
		return ContactView{Contact: c, TagNames: lookup.Resolve(c.TagIDs)}
	})
}

// CampaignsView renders the campaigns state with tag names.
func (d *Dashboard) CampaignsView() ListView[CampaignView] {
	lookup := d.TagLookup()
	return newListView(d.Campaigns.State(), func(c campaigns.Campaign) CampaignView {
		return CampaignView{Campaign: c, TagNames: lookup.Resolve(c.TagIDs)}
	})
}

// TagsView renders the tags state.
func (d *Dashboard) TagsView() ListView[tags.Tag] {
	return newListView(d.Tags.State(), func(t tags.Tag) tags.Tag { return t })
}

// Summary holds the derived counts shown on the dashboard home page.
type Summary struct {
	Contacts           int                       `json:"contacts"`
	Campaigns          int                       `json:"campaigns"`
	Tags               int                       `json:"tags"`
	ContactsByCategory map[contacts.Category]int `json:"contactsByCategory"`
	CampaignsByStatus  map[campaigns.Status]int  `json:"campaignsByStatus"`
	SelectedContacts   int                       `json:"selectedContacts"`
	SelectedCampaigns  int                       `json:"selectedCampaigns"`
	SelectedTags       int                       `json:"selectedTags"`
	Loading            bool                      `json:"loading"`
}

// Summary computes counts from the current snapshots. Every category and
// status is present, zero when unused.
func (d *Dashboard) Summary() Summary {
	cs := d.Contacts.State()
	ks := d.Campaigns.State()
	ts := d.Tags.State()

	s := Summary{
		Contacts:           cs.Count(),
		Campaigns:          ks.Count(),
		Tags:               ts.Count(),
		ContactsByCategory: make(map[contacts.Category]int, len(contacts.Categories)),
		CampaignsByStatus:  make(map[campaigns.Status]int, len(campaigns.Statuses)),
		SelectedContacts:   cs.SelectedCount(),
		SelectedCampaigns:  ks.SelectedCount(),
		SelectedTags:       ts.SelectedCount(),
		Loading:            cs.Loading || ks.Loading || ts.Loading,
	}
	for _, cat := range contacts.Categories {
		s.ContactsByCategory[cat] = 0
	}
	for _, c := range cs.Entities {
		s.ContactsByCategory[c.Category]++
	}
	for _, st := range campaigns.Statuses {
		s.CampaignsByStatus[st] = 0
	}
	for _, k := range ks.Entities {
		s.CampaignsByStatus[k.Status]++
	}
	return s
}
