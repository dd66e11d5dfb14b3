package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pathtree_service/cache"
	"pathtree_service/models"
	"pathtree_service/pathtree"
	"pathtree_service/repository"

	"github.com/aws/aws-lambda-go/events"
)

// Handler represents the Lambda handler with its dependencies
type Handler struct {
	repo repository.Repository
}

// NewHandler creates a new Handler with the given repository
func NewHandler(repo repository.Repository) *Handler {
	return &Handler{
		repo: repo,
	}
}

// Handle processes API Gateway events
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// Route the request based on HTTP method and resource
	switch {
	case request.HTTPMethod == "GET" && request.Resource == "/trees":
		return h.handleGetAllTrees(ctx)
	case request.HTTPMethod == "POST" && request.Resource == "/trees/{tree_id}/root":
		return h.handleCreateRoot(ctx, request)
	case request.HTTPMethod == "POST" && request.Resource == "/trees/{tree_id}/nodes":
		return h.handleCreateChild(ctx, request)
	case request.HTTPMethod == "GET" && request.Resource == "/trees/{tree_id}":
		return h.handleGetTree(ctx, request)
	case request.HTTPMethod == "GET" && request.Resource == "/trees/{tree_id}/nested":
		return h.handleGetTreeNested(ctx, request)
	case request.HTTPMethod == "PATCH" && request.Resource == "/nodes/{node_id}":
		return h.handleUpdateNode(ctx, request)
	case request.HTTPMethod == "DELETE" && request.Resource == "/nodes/{tree_id}/{path}":
		return h.handleDeleteSubtree(ctx, request)
	default:
		return errorResponse(http.StatusNotFound, "Not found"), nil
	}
}

func (h *Handler) handleGetAllTrees(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	// Try to get from cache first
	if cached, found := cache.GetTreeList(); found {
		return jsonResponse(http.StatusOK, cached), nil
	}

	nodes, err := h.repo.ListAll(ctx)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}

	listings := pathtree.ListTrees(nodes)

	// Store in cache
	cache.SetTreeList(listings)

	return jsonResponse(http.StatusOK, listings), nil
}

func (h *Handler) handleCreateRoot(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	treeID, err := pathTreeID(request)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "invalid tree id"), nil
	}

	name := request.QueryStringParameters["name"]
	if name == "" {
		return errorResponse(http.StatusBadRequest, "name is required"), nil
	}
	var data *string
	if v, ok := request.QueryStringParameters["data"]; ok {
		data = &v
	}

	node := &models.TreeNode{TreeID: treeID, Name: name, Data: data}
	id, err := h.repo.InsertNode(ctx, node)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}

	path := strconv.FormatInt(id, 10)
	if err := h.repo.SetPath(ctx, id, path); err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}
	node.ID = id
	node.Path = path

	cache.InvalidateCache()

	return jsonResponse(http.StatusCreated, node), nil
}

func (h *Handler) handleCreateChild(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	treeID, err := pathTreeID(request)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "invalid tree id"), nil
	}

	var req models.CreateChildRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err)), nil
	}
	if err := req.Validate(); err != nil {
		return errorResponse(http.StatusBadRequest, err.Error()), nil
	}

	parent, err := h.repo.GetNode(ctx, req.ParentID)
	if err != nil {
		if errors.Is(err, repository.ErrNodeNotFound) {
			return errorResponse(http.StatusNotFound, "parent not found"), nil
		}
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}

	descendants, err := h.repo.ListByPrefix(ctx, treeID, pathtree.ChildPrefix(parent.Path))
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
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
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}
	node.ID = id

	if err := h.repo.ClearData(ctx, parent.ID); err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}

	cache.InvalidateCache()

	return jsonResponse(http.StatusCreated, node), nil
}

func (h *Handler) handleGetTree(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	treeID, err := pathTreeID(request)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "invalid tree id"), nil
	}

	nodes, err := h.repo.ListByTree(ctx, treeID)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}
	if nodes == nil {
		nodes = []*models.TreeNode{}
	}

	return jsonResponse(http.StatusOK, nodes), nil
}

func (h *Handler) handleGetTreeNested(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	treeID, err := pathTreeID(request)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "invalid tree id"), nil
	}

	if root, found := cache.GetNestedTree(treeID); found {
		return jsonResponse(http.StatusOK, root), nil
	}

	nodes, err := h.repo.ListByTree(ctx, treeID)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}

	root := pathtree.Nest(nodes)
	if root == nil {
		return jsonResponse(http.StatusOK, map[string]interface{}{}), nil
	}

	cache.SetNestedTree(treeID, root)

	return jsonResponse(http.StatusOK, root), nil
}

func (h *Handler) handleUpdateNode(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	nodeID, err := strconv.ParseInt(request.PathParameters["node_id"], 10, 64)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "invalid node id"), nil
	}

	var req models.UpdateNodeRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err)), nil
	}
	if err := req.Validate(); err != nil {
		return errorResponse(http.StatusBadRequest, err.Error()), nil
	}

	node, err := h.repo.GetNode(ctx, nodeID)
	if err != nil {
		if errors.Is(err, repository.ErrNodeNotFound) {
			return errorResponse(http.StatusNotFound, "node not found"), nil
		}
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}

	if req.Name != nil {
		node.Name = *req.Name
	}
	if req.Data != nil {
		node.Data = req.Data
	}

	hasChildren, err := h.repo.HasDescendant(ctx, node.TreeID, node.Path)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}
	if hasChildren {
		node.Data = nil
	}

	if err := h.repo.UpdateNode(ctx, node); err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}

	cache.InvalidateCache()

	return jsonResponse(http.StatusOK, node), nil
}

func (h *Handler) handleDeleteSubtree(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	treeID, err := pathTreeID(request)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "invalid tree id"), nil
	}
	path := request.PathParameters["path"]

	deleted, err := h.repo.DeleteSubtree(ctx, treeID, path)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}

	cache.InvalidateCache()

	return jsonResponse(http.StatusOK, map[string]int64{"deleted_rows": deleted}), nil
}

// pathTreeID parses the tree_id path parameter
func pathTreeID(request events.APIGatewayProxyRequest) (int64, error) {
	return strconv.ParseInt(request.PathParameters["tree_id"], 10, 64)
}

// jsonResponse builds a JSON API Gateway response
func jsonResponse(status int, v interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, fmt.Sprintf("Failed to marshal response: %v", err))
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

// errorResponse builds a JSON error response
func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
