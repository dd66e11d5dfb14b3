package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"pathtree_service/cache"
	"pathtree_service/models"
	"pathtree_service/pathtree"
	"pathtree_service/repository"

	"github.com/gin-gonic/gin"
)

// TreeHandler handles tree-related HTTP requests
type TreeHandler struct {
	repo repository.Repository
}

// NewTreeHandler creates a new TreeHandler instance
func NewTreeHandler(repo repository.Repository) *TreeHandler {
	return &TreeHandler{
		repo: repo,
	}
}

// CreateRoot creates a new root node for the given tree.
//
// The root's path is the decimal form of its store-assigned ID, so the
// row is inserted with an empty path first and the path is filled in
// with a second write once the ID is known. The two writes commit
// independently.
func (h *TreeHandler) CreateRoot(c *gin.Context) {
	treeID, err := strconv.ParseInt(c.Param("tree_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tree id"})
		return
	}

	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	var data *string
	if v, ok := c.GetQuery("data"); ok {
		data = &v
	}

	ctx := c.Request.Context()
	node := &models.TreeNode{
		TreeID: treeID,
		Path:   "",
		Name:   name,
		Data:   data,
	}

	id, err := h.repo.InsertNode(ctx, node)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	path := strconv.FormatInt(id, 10)
	if err := h.repo.SetPath(ctx, id, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	node.ID = id
	node.Path = path

	// Invalidate cache since we modified the tree
	cache.InvalidateCache()

	c.JSON(http.StatusCreated, node)
}

// CreateChild appends a child node under an existing parent.
//
// The new child's sibling index is one past the count of the parent's
// direct children: descendants are fetched by dot-bounded path prefix and
// filtered to depth parent+1, so grandchildren are never counted. The
// parent's data payload is cleared afterwards; parent nodes never carry
// data. The insert and the parent clear commit independently.
func (h *TreeHandler) CreateChild(c *gin.Context) {
	treeID, err := strconv.ParseInt(c.Param("tree_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tree id"})
		return
	}

	var req models.CreateChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate the request
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	parent, err := h.repo.GetNode(ctx, req.ParentID)
	if err != nil {
		if errors.Is(err, repository.ErrNodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	descendants, err := h.repo.ListByPrefix(ctx, treeID, pathtree.ChildPrefix(parent.Path))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	childDepth := pathtree.Depth(parent.Path) + 1
	directChildren := 0
	for _, node := range descendants {
		if pathtree.Depth(node.Path) == childDepth {
			directChildren++
		}
	}

	node := &models.TreeNode{
		TreeID: treeID,
		Path:   pathtree.ChildPath(parent.Path, directChildren+1),
		Name:   req.Name,
		Data:   req.Data,
	}

	id, err := h.repo.InsertNode(ctx, node)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	node.ID = id

	// The parent has a child now, so it cannot hold a data payload.
	if err := h.repo.ClearData(ctx, parent.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Invalidate cache since we modified the tree
	cache.InvalidateCache()

	c.JSON(http.StatusCreated, node)
}

// GetAllTrees returns every tree, each as its tree ID plus nested root
func (h *TreeHandler) GetAllTrees(c *gin.Context) {
	// Try to get from cache first
	if cached, found := cache.GetTreeList(); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	ctx := c.Request.Context()
	nodes, err := h.repo.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	listings := pathtree.ListTrees(nodes)

	// Store in cache
	cache.SetTreeList(listings)

	c.JSON(http.StatusOK, listings)
}

// GetTree returns the flat row list of one tree, ordered by path
func (h *TreeHandler) GetTree(c *gin.Context) {
	treeID, err := strconv.ParseInt(c.Param("tree_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tree id"})
		return
	}

	ctx := c.Request.Context()
	nodes, err := h.repo.ListByTree(ctx, treeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if nodes == nil {
		nodes = []*models.TreeNode{}
	}

	c.JSON(http.StatusOK, nodes)
}

// GetTreeNested returns one tree as a nested structure, or an empty
// object when the tree has no rows or no root row
func (h *TreeHandler) GetTreeNested(c *gin.Context) {
	treeID, err := strconv.ParseInt(c.Param("tree_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tree id"})
		return
	}

	// Try to get from cache first
	if root, found := cache.GetNestedTree(treeID); found {
		c.JSON(http.StatusOK, root)
		return
	}

	ctx := c.Request.Context()
	nodes, err := h.repo.ListByTree(ctx, treeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	root := pathtree.Nest(nodes)
	if root == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	// Store in cache
	cache.SetNestedTree(treeID, root)

	c.JSON(http.StatusOK, root)
}

// UpdateNode partially updates a node's name and data. If the node turns
// out to have any descendant, its data is forced back to null no matter
// what the request carried.
func (h *TreeHandler) UpdateNode(c *gin.Context) {
	nodeID, err := strconv.ParseInt(c.Param("node_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid node id"})
		return
	}

	var req models.UpdateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate the request
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	node, err := h.repo.GetNode(ctx, nodeID)
	if err != nil {
		if errors.Is(err, repository.ErrNodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Absent fields keep their stored values
	if req.Name != nil {
		node.Name = *req.Name
	}
	if req.Data != nil {
		node.Data = req.Data
	}

	hasChildren, err := h.repo.HasDescendant(ctx, node.TreeID, node.Path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if hasChildren {
		node.Data = nil
	}

	if err := h.repo.UpdateNode(ctx, node); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Invalidate cache since we modified the tree
	cache.InvalidateCache()

	c.JSON(http.StatusOK, node)
}

// DeleteSubtree removes a node and its entire descendant subtree in one
// store operation. Ancestors are left untouched: a parent that becomes
// childless does not get its data back.
func (h *TreeHandler) DeleteSubtree(c *gin.Context) {
	treeID, err := strconv.ParseInt(c.Param("tree_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tree id"})
		return
	}
	path := c.Param("path")

	ctx := c.Request.Context()
	deleted, err := h.repo.DeleteSubtree(ctx, treeID, path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Invalidate cache since we modified the tree
	cache.InvalidateCache()

	c.JSON(http.StatusOK, gin.H{"deleted_rows": deleted})
}
