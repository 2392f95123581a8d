package graph

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/kri-ruj/readnext/internal/model"
)

// similarityThreshold is the minimum Jaccard similarity for an edge.
const similarityThreshold = 0.3

// maxPathLength caps the number of articles in a learning path.
const maxPathLength = 5

// Node kinds stored in the graph.
const (
	KindArticle = "article"
	KindConcept = "concept"
)

// Node is either an article node or a concept node, distinguished by
// Kind. Article nodes carry symmetric weighted connections; concept
// nodes list the article nodes that mention them, in insertion order.
type Node struct {
	Kind     string   `json:"type"`
	Title    string   `json:"title,omitempty"`
	Concepts []string `json:"concepts,omitempty"`
	Entities []string `json:"entities,omitempty"`

	Connections map[string]float64 `json:"connections,omitempty"`

	Name     string   `json:"name,omitempty"`
	Articles []string `json:"articles,omitempty"`
}

// KnowledgeGraph links articles by concept similarity. Nodes are added,
// never removed; edges are computed at insertion time only. The graph
// is owned by its creator and guards its own state, so concurrent
// ingestion is safe.
type KnowledgeGraph struct {
	mu    sync.RWMutex
	nodes map[string]*Node

	// article node ids in insertion order, for deterministic iteration
	articleIDs []string
}

// New creates an empty knowledge graph.
func New() *KnowledgeGraph {
	return &KnowledgeGraph{
		nodes: make(map[string]*Node),
	}
}

// AddArticle inserts (or overwrites) the article node, links it to
// every existing article whose concept similarity exceeds the
// threshold, and registers its concepts. The created edge set is
// written back into the record's ConnectedArticles and
// RelationshipStrength.
func (g *KnowledgeGraph) AddArticle(article *model.ArticleRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()

	nodeID := ArticleNodeID(article.ID)

	if _, exists := g.nodes[nodeID]; !exists {
		g.articleIDs = append(g.articleIDs, nodeID)
	}
	g.nodes[nodeID] = &Node{
		Kind:        KindArticle,
		Title:       article.Title,
		Concepts:    article.Concepts,
		Entities:    article.Entities,
		Connections: make(map[string]float64),
	}

	g.createConnections(nodeID, article)

	for _, concept := range article.Concepts {
		conceptID := ConceptNodeID(concept)
		node, ok := g.nodes[conceptID]
		if !ok {
			node = &Node{Kind: KindConcept, Name: concept}
			g.nodes[conceptID] = node
		}
		node.Articles = append(node.Articles, nodeID)
	}
}

// createConnections links the new node to existing article nodes with
// symmetric weighted edges, and mirrors the edge set onto the record.
func (g *KnowledgeGraph) createConnections(nodeID string, article *model.ArticleRecord) {
	node := g.nodes[nodeID]

	article.ConnectedArticles = nil
	article.RelationshipStrength = make(map[int]float64)

	for _, otherID := range g.articleIDs {
		if otherID == nodeID {
			continue
		}
		other := g.nodes[otherID]

		similarity := Jaccard(article.Concepts, other.Concepts)
		if similarity > similarityThreshold {
			node.Connections[otherID] = similarity
			other.Connections[nodeID] = similarity

			if id, err := parseArticleNodeID(otherID); err == nil {
				article.ConnectedArticles = append(article.ConnectedArticles, id)
				article.RelationshipStrength[id] = similarity
			}
		}
	}
}

// FindLearningPath returns up to five article ids attached to the goal
// concept, in insertion order. An unknown concept, or one with no
// articles, yields an empty path. The start article does not influence
// the result.
func (g *KnowledgeGraph) FindLearningPath(startArticle int, goalConcept string) []int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	goal, ok := g.nodes[ConceptNodeID(goalConcept)]
	if !ok || len(goal.Articles) == 0 {
		return nil
	}

	var path []int
	for _, nodeID := range goal.Articles {
		if len(path) >= maxPathLength {
			break
		}
		if id, err := parseArticleNodeID(nodeID); err == nil {
			path = append(path, id)
		}
	}
	return path
}

// ArticleNode returns a copy of the article node, if present.
func (g *KnowledgeGraph) ArticleNode(id int) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, ok := g.nodes[ArticleNodeID(id)]
	if !ok {
		return Node{}, false
	}
	return *node, true
}

// ConceptNode returns a copy of the concept node, if present.
func (g *KnowledgeGraph) ConceptNode(name string) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, ok := g.nodes[ConceptNodeID(name)]
	if !ok {
		return Node{}, false
	}
	return *node, true
}

// Len returns the total node count, both kinds included.
func (g *KnowledgeGraph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Jaccard computes |A∩B| / |A∪B| over two concept sets. Either set
// being empty yields 0.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}

	intersection := 0
	union := len(setA)
	for s := range setB {
		if _, ok := setA[s]; ok {
			intersection++
		} else {
			union++
		}
	}

	return float64(intersection) / float64(union)
}

// ArticleNodeID builds the graph key for an article.
func ArticleNodeID(id int) string {
	return fmt.Sprintf("article_%d", id)
}

// ConceptNodeID builds the graph key for a concept.
func ConceptNodeID(name string) string {
	return "concept_" + name
}

func parseArticleNodeID(nodeID string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(nodeID, "article_"))
}
