package core

import (
	"sort"
	"strings"

	"github.com/vd09-projects/relctx/internal/model"
)

func ToRecords(repo *RepoNode, repoName, commitHash string) []model.Record {
	var out []model.Record
	for _, f := range repo.Files {
		for _, dn := range f.Decls {
			rec := model.Record{
				Repo:      repoName,
				Commit:    commitHash,
				Lang:      repo.Lang,
				Path:      f.RelPath,
				Symbol:    dn.Symbol,
				Kind:      dn.Kind,
				Signature: strings.TrimSpace(dn.Signature),
				StartLine: dn.StartLine,
				EndLine:   dn.EndLine,
				Code:      dn.Code,
			}

			if v, ok := dn.Aspects[AspectOwner].(string); ok {
				rec.Owner = v
			}
			if v, ok := dn.Aspects[AspectRelated].([]model.RelatedRef); ok && len(v) > 0 {
				rec.Related = v
			}
			if v, ok := dn.Aspects[AspectContext].(string); ok {
				rec.Context = v
			}
			if v, ok := dn.Aspects[AspectNeighbors].([]model.Neighbor); ok && len(v) > 0 {
				rec.Neighbors = v
			}
			if v, ok := dn.Aspects[AspectCallGraph].(*model.CallGraph); ok && v != nil {
				rec.CallGraph = v
			}
			if v, ok := dn.Aspects[AspectSelection].(*model.Selection); ok && v != nil {
				rec.Selection = v
			}
			out = append(out, rec)
		}
	}

	// Stable order: path asc, start_line asc
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].StartLine < out[j].StartLine
		}
		return out[i].Path < out[j].Path
	})
	return out
}
